package score

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/InquilineKea/pgscore/scorefile"
)

// WriteSummaryTSV writes the scoring result as a one-row tab-separated
// table: a header line, then the total, the matched and model variant
// counts, and the match rate. withMean appends the explicit per-SNP
// average column.
func WriteSummaryTSV(w io.Writer, source string, s Summary, withMean bool) error {
	header := "source\ttotal_score\tmatched_variants\tmodel_variants\tmatch_rate"
	row := fmt.Sprintf("%s\t%f\t%d\t%d\t%f", source, s.TotalScore, s.MatchedCount, s.TotalVariants, s.MatchRate())

	if withMean {
		header += "\tmean_per_variant"
		mean, _ := s.MeanPerVariant()
		row += fmt.Sprintf("\t%f", mean)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", header, row); err != nil {
		return err
	}

	return nil
}

// WriteSummaryText writes a human-readable report, echoing any PGS Catalog
// metadata that was present in the score file.
func WriteSummaryText(w io.Writer, meta scorefile.Meta, s Summary, withMean bool) error {
	var err error
	line := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	if meta.PGSID != "" {
		line("pgs_id: %s\n", meta.PGSID)
	}
	if meta.Trait != "" {
		line("trait: %s\n", meta.Trait)
	}
	if meta.GenomeBuild != "" {
		line("genome_build: %s\n", meta.GenomeBuild)
	}

	line("total_score: %f\n", s.TotalScore)
	line("matched_variants: %d\n", s.MatchedCount)
	line("model_variants: %d\n", s.TotalVariants)
	line("match_rate: %f\n", s.MatchRate())

	if s.SkippedVCFLines > 0 {
		line("skipped_vcf_lines: %d\n", s.SkippedVCFLines)
	}

	if withMean {
		mean, _ := s.MeanPerVariant()
		line("mean_per_variant: %f\n", mean)
	}

	return err
}

// WriteContributions writes the per-variant detail rows as tab-separated
// values with a header derived from the Contribution csv tags.
func WriteContributions(w io.Writer, rows []Contribution) error {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = '\t'
		return gocsv.NewSafeCSVWriter(writer)
	})

	return gocsv.Marshal(&rows, w)
}
