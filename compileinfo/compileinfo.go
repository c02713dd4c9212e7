// Package compileinfo reports the build provenance of a binary so that
// scores computed by different builds can be traced to a commit.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type Info struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (i Info) String() string {
	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	}

	suffix := ""
	if i.Modified {
		suffix = " (with uncommitted changes)"
	}

	return fmt.Sprintf("%s built with %s at commit %s%s %s", i.Package, i.GoVersion, commit, suffix, i.CommitTime)
}

func Get() Info {
	out := Info{}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = buildInfo.GoVersion
	out.Package = buildInfo.Path
	for _, s := range buildInfo.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// LogBuild prints the build provenance to stderr, keeping stdout free for
// report data.
func LogBuild() {
	fmt.Fprintln(os.Stderr, Get())
}
