package scorefile

import "github.com/InquilineKea/pgscore"

// Allele is one or more nucleotide bases (e.g. "A" or "AT"). Comparisons
// against genotype data are case-insensitive; see the score package.
type Allele string

// Entry is a single score-model variant: the site it describes, the allele
// whose dosage carries the weight, the opposite allele, and the signed
// weight itself. Entries are created once at load time and never mutated.
type Entry struct {
	SNP          string
	Chromosome   string
	Position     int
	EffectAllele Allele
	OtherAllele  Allele
	Weight       float64
}

// Locus returns the normalized join key for this entry.
func (e Entry) Locus() pgscore.Locus {
	return pgscore.NormalizedLocus(e.Chromosome, e.Position)
}
