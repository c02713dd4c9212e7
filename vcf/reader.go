// Package vcf streams genotype calls out of a single-sample VCF, yielding
// only the biallelic sites that appear in a score model. The whole file is
// never held in memory; whole-genome VCFs are expected to be large.
package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/InquilineKea/pgscore"
	"github.com/InquilineKea/pgscore/scorefile"
)

// The 8 fixed VCF columns, then FORMAT and the first sample.
const (
	colChrom = iota
	colPos
	colID
	colRef
	colAlt
	colQual
	colFilter
	colInfo
	colFormat
	colSample
)

// A data line must carry at least FORMAT plus one sample to be scorable.
const minFields = colSample + 1

const maxLineBytes = 8 * 1024 * 1024

// NotFoundError is returned when the VCF file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("vcf %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Call is one genotype call at a modeled locus. It pairs the normalized
// locus with the VCF's ref and alt alleles and the raw genotype string
// (e.g. "0/1", "1|1", "./."). Calls are consumed immediately by the score
// accumulator and not retained.
type Call struct {
	Locus    pgscore.Locus
	ID       string
	Ref      string
	Alt      string
	Genotype string
}

// Reader streams a VCF once, front to back, yielding a Call for each
// biallelic data line whose normalized locus is present in the model.
// Re-opening the same file yields the same calls in the same order.
type Reader struct {
	path    string
	rc      io.ReadCloser
	scanner *bufio.Scanner
	model   *scorefile.Model
	skipped int
}

// Open prepares a streaming pass over the VCF at path, transparently
// decompressing it. The model supplies the loci worth yielding.
func Open(path string, model *scorefile.Model) (*Reader, error) {
	rc, err := pgscore.OpenMaybeCompressed(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, pfx.Err(err)
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)

	return &Reader{
		path:    path,
		rc:      rc,
		scanner: scanner,
		model:   model,
	}, nil
}

// Read returns the next matching call, or nil at end of input. Malformed
// data lines are skipped, not fatal: the run continues and the count is
// available from SkippedLines for diagnostics.
func (r *Reader) Read() *Call {
	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			r.skipped++
			continue
		}

		pos, err := strconv.Atoi(fields[colPos])
		if err != nil || pos < 1 {
			r.skipped++
			continue
		}

		// More than one alternate allele breaks the biallelic precondition
		// of the dosage arithmetic, so multiallelic records never match.
		alt := fields[colAlt]
		if strings.Contains(alt, ",") {
			continue
		}

		locus := pgscore.NormalizedLocus(fields[colChrom], pos)
		if _, ok := r.model.Lookup(locus); !ok {
			continue
		}

		return &Call{
			Locus:    locus,
			ID:       fields[colID],
			Ref:      fields[colRef],
			Alt:      alt,
			Genotype: genotypeField(fields[colFormat], fields[colSample]),
		}
	}

	return nil
}

// SkippedLines is the number of data lines dropped as malformed so far.
func (r *Reader) SkippedLines() int {
	return r.skipped
}

func (r *Reader) Err() error {
	return r.scanner.Err()
}

func (r *Reader) Close() error {
	return r.rc.Close()
}
