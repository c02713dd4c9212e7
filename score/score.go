// Package score turns matched genotype calls into a weighted polygenic
// score: it resolves which VCF allele carries the model's effect weight,
// converts the genotype into an effect-allele dosage, and accumulates
// dosage times weight over a single pass.
package score

import (
	"strings"

	"github.com/InquilineKea/pgscore"
	"github.com/InquilineKea/pgscore/scorefile"
	"github.com/InquilineKea/pgscore/vcf"
)

// Allele codes within a biallelic VCF genotype.
const (
	refAllele = 0
	altAllele = 1
)

// Summary is the outcome of scoring one sample against one model. Missing
// counts model loci that were never successfully scored, whether absent
// from the VCF, unresolvable by orientation, or carrying a missing
// genotype; unmatched VCF lines are not missing anything.
type Summary struct {
	TotalScore      float64
	MatchedCount    int
	MissingCount    int
	TotalVariants   int
	SkippedVCFLines int
}

// MatchRate is the fraction of model loci that were scored.
func (s Summary) MatchRate() float64 {
	if s.TotalVariants == 0 {
		return 0
	}

	return float64(s.MatchedCount) / float64(s.TotalVariants)
}

// MeanPerVariant is the per-SNP average of the total. This is a reporting
// convention used by some legacy callers, never an implicit normalization;
// ok is false when nothing matched.
func (s Summary) MeanPerVariant() (mean float64, ok bool) {
	if s.MatchedCount == 0 {
		return 0, false
	}

	return s.TotalScore / float64(s.MatchedCount), true
}

// Contribution records one scored variant for the optional detail report.
type Contribution struct {
	Chromosome   string  `csv:"chromosome"`
	Position     int     `csv:"position"`
	SNP          string  `csv:"snp"`
	EffectAllele string  `csv:"effect_allele"`
	Dosage       int64   `csv:"dosage"`
	Weight       float64 `csv:"effect_weight"`
	Value        float64 `csv:"contribution"`
}

// Accumulator owns the running state of one scoring pass. It is not safe
// for concurrent use and is not meant to be reused across runs.
type Accumulator struct {
	// RecordContributions keeps a per-variant Contribution row for each
	// scored call, for the detail report. Off by default since models can
	// be large.
	RecordContributions bool

	model         *scorefile.Model
	summary       Summary
	contributions []Contribution
	scored        map[pgscore.Locus]bool
}

func NewAccumulator(model *scorefile.Model) *Accumulator {
	return &Accumulator{
		model:  model,
		scored: make(map[pgscore.Locus]bool),
	}
}

// Add scores a single call. Calls whose orientation cannot be resolved or
// whose genotype is missing contribute nothing and are not counted as
// matched; neither case is an error.
func (a *Accumulator) Add(call *vcf.Call) {
	entry, ok := a.model.Lookup(call.Locus)
	if !ok {
		return
	}

	// Whole-genome VCFs can repeat a position (re-emitted or overlapping
	// records); each model variant contributes at most once.
	if a.scored[call.Locus] {
		return
	}

	effectAlleleNumeric, ok := resolveEffectAllele(entry, call)
	if !ok {
		return
	}

	dosage := call.EffectDosage(effectAlleleNumeric)
	if !dosage.Valid {
		return
	}

	value := float64(dosage.Int64) * entry.Weight
	a.summary.TotalScore += value
	a.summary.MatchedCount++
	a.scored[call.Locus] = true

	if a.RecordContributions {
		a.contributions = append(a.contributions, Contribution{
			Chromosome:   call.Locus.Chromosome,
			Position:     call.Locus.Position,
			SNP:          call.ID,
			EffectAllele: string(entry.EffectAllele),
			Dosage:       dosage.Int64,
			Weight:       entry.Weight,
			Value:        value,
		})
	}
}

// Finalize closes out the pass. skippedLines is the reader's malformed-line
// count, carried on the summary for diagnostics only.
func (a *Accumulator) Finalize(skippedLines int) Summary {
	a.summary.TotalVariants = a.model.Len()
	a.summary.MissingCount = a.model.Len() - a.summary.MatchedCount
	a.summary.SkippedVCFLines = skippedLines

	return a.summary
}

// Contributions returns the recorded per-variant rows, if any.
func (a *Accumulator) Contributions() []Contribution {
	return a.contributions
}

// resolveEffectAllele decides which of the VCF's two alleles carries the
// model's effect weight, trying both orientations case-insensitively:
// effect/other equal to ref/alt, or swapped. Any other pairing (strand
// mismatch, different variant at the same position) is unresolvable and
// the site is left unscored.
func resolveEffectAllele(entry scorefile.Entry, call *vcf.Call) (int, bool) {
	effect := string(entry.EffectAllele)
	other := string(entry.OtherAllele)

	if strings.EqualFold(effect, call.Ref) && strings.EqualFold(other, call.Alt) {
		return refAllele, true
	}

	if strings.EqualFold(effect, call.Alt) && strings.EqualFold(other, call.Ref) {
		return altAllele, true
	}

	return refAllele, false
}

// Apply runs the whole pipeline over one VCF: stream, match, accumulate.
func Apply(model *scorefile.Model, vcfPath string) (Summary, error) {
	summary, _, err := apply(model, vcfPath, false)
	return summary, err
}

// ApplyDetailed is Apply with per-variant contribution rows retained.
func ApplyDetailed(model *scorefile.Model, vcfPath string) (Summary, []Contribution, error) {
	return apply(model, vcfPath, true)
}

func apply(model *scorefile.Model, vcfPath string, detailed bool) (Summary, []Contribution, error) {
	reader, err := vcf.Open(vcfPath, model)
	if err != nil {
		return Summary{}, nil, err
	}
	defer reader.Close()

	accumulator := NewAccumulator(model)
	accumulator.RecordContributions = detailed

	for call := reader.Read(); call != nil; call = reader.Read() {
		accumulator.Add(call)
	}

	if err := reader.Err(); err != nil {
		return Summary{}, nil, err
	}

	return accumulator.Finalize(reader.SkippedLines()), accumulator.Contributions(), nil
}
