// applypgs computes a polygenic score for a single-sample VCF against a
// PGS weights file and reports the total score, the matched and model
// variant counts, and the match rate.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/InquilineKea/pgscore/compileinfo"
	"github.com/InquilineKea/pgscore/score"
	"github.com/InquilineKea/pgscore/scorefile"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	compileinfo.LogBuild()

	var (
		vcfPath    string
		modelPath  string
		layoutName string
		outPath    string
		detailPath string
		sourceName string
		withMean   bool
		weightHist bool
		textReport bool
	)
	flag.StringVar(&vcfPath, "vcf", "", "Path to the single-sample VCF containing diploid genotype data (optionally compressed)")
	flag.StringVar(&modelPath, "model", "", "Path to the PGS score file (optionally compressed)")
	flag.StringVar(&layoutName, "layout", "", fmt.Sprint("Optional: layout of the score file; detected from content when unset. Options include: ", scorefile.LayoutNames()))
	flag.StringVar(&outPath, "out", "", "Optional: write the report to this path instead of stdout")
	flag.StringVar(&detailPath, "detail", "", "Optional: write a per-variant contribution TSV to this path")
	flag.StringVar(&sourceName, "source", "", "Source label for the report row (e.g., a trait and a version); defaults to the score file's pgs_id")
	flag.BoolVar(&withMean, "average", false, "Also report the per-SNP mean (total divided by matched count)")
	flag.BoolVar(&weightHist, "hist", false, "Print a histogram of model weights to stderr as a parsing sanity check")
	flag.BoolVar(&textReport, "text", false, "Write a human-readable report instead of TSV")
	flag.Parse()

	if vcfPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --vcf")
	}

	if modelPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --model")
	}

	model, err := loadModel(modelPath, layoutName)
	if err != nil {
		log.Fatalln(err)
	}

	log.Println("There are", model.Len(), "variants in the score model")
	for _, v := range model.Entries() {
		log.Println("Example entry from your score file:")
		log.Printf("%+v\n", v)
		break
	}

	if stats, err := model.WeightStats(); err == nil {
		log.Printf("Weights: mean %.6f, sd %.6f, min %.6f, max %.6f\n", stats.Mean, stats.SD, stats.Min, stats.Max)
	}

	if weightHist {
		hist := histogram.Hist(10, model.Weights())
		if err := histogram.Fprint(os.Stderr, hist, histogram.Linear(40)); err != nil {
			log.Println("Weight histogram:", err)
		}
	}

	if sourceName == "" {
		sourceName = model.Meta.PGSID
	}
	if sourceName == "" {
		sourceName = modelPath
	}

	var summary score.Summary
	var contributions []score.Contribution

	if detailPath != "" {
		summary, contributions, err = score.ApplyDetailed(model, vcfPath)
	} else {
		summary, err = score.Apply(model, vcfPath)
	}
	if err != nil {
		log.Fatalln(err)
	}

	if summary.SkippedVCFLines > 0 {
		log.Println("Skipped", summary.SkippedVCFLines, "malformed VCF lines")
	}

	if detailPath != "" {
		if err := writeDetail(detailPath, contributions); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote", len(contributions), "per-variant contributions to", detailPath)
	}

	out := io.Writer(STDOUT)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	if textReport {
		err = score.WriteSummaryText(out, model.Meta, summary, withMean)
	} else {
		err = score.WriteSummaryTSV(out, sourceName, summary, withMean)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func loadModel(modelPath, layoutName string) (*scorefile.Model, error) {
	if layoutName == "" {
		return scorefile.Load(modelPath)
	}

	layout, exists := scorefile.Layouts[layoutName]
	if !exists {
		return nil, fmt.Errorf("layout %s is not found. Valid layout names include: %s", layoutName, scorefile.LayoutNames())
	}

	return scorefile.LoadWithLayout(modelPath, layout)
}

func writeDetail(path string, contributions []score.Contribution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return score.WriteContributions(f, contributions)
}
