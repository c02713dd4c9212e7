package pgscore

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type compression byte

const (
	compressionNone compression = iota
	compressionGzip
	compressionZip
	compressionXZ
	compressionBzip2
)

// Byte code signatures from https://stackoverflow.com/a/19127748/199475
var magicBytes = map[compression][]byte{
	compressionGzip:  {0x1f, 0x8b, 0x08},
	compressionZip:   {0x50, 0x4b, 0x03, 0x04},
	compressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	compressionBzip2: {0x42, 0x5a, 0x68},
}

// OpenMaybeCompressed opens path and transparently decompresses it if its
// leading bytes match a known compression signature. Score models fetched
// from the PGS Catalog are usually gzipped regardless of their file
// extension, so detection is by content rather than by suffix. The caller
// must Close the returned ReadCloser.
//
// A file-not-found error is returned unwrapped so that callers can
// distinguish it from read errors.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, err
	}

	comp, err := sniffCompression(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	switch comp {
	case compressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &layeredReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case compressionZip:
		return &layeredReadCloser{Reader: zipstream.NewReader(f), closers: []io.Closer{f}}, nil
	case compressionBzip2:
		return &layeredReadCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	case compressionXZ:
		xzReader, err := xz.NewReader(f, 0)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &layeredReadCloser{Reader: xzReader, closers: []io.Closer{f}}, nil
	}

	return f, nil
}

func sniffCompression(r io.Reader) (compression, error) {
	buff := make([]byte, 6)
	if _, err := io.ReadFull(r, buff); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// Too short to carry any known signature
			return compressionNone, nil
		}
		return compressionNone, err
	}

Outer:
	for comp, sig := range magicBytes {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return comp, nil
	}

	return compressionNone, nil
}

// layeredReadCloser closes every layer of a decompression stack, outermost
// first.
type layeredReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (l *layeredReadCloser) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		path = filepath.Join(usr.HomeDir, (path)[2:])
	}

	return path
}
