package pgscore

import (
	"strconv"
	"strings"
)

// Locus identifies a genomic site by chromosome name and 1-based position.
// It is the join key between a score model and genotype data, and is only
// meaningful after chromosome normalization (see NormalizedLocus).
type Locus struct {
	Chromosome string
	Position   int
}

// NormalizeChromosome reduces the many spellings of a chromosome name to a
// single canonical form so that score models and VCFs authored with
// different conventions can be joined on it:
//
//   - common prefixes ("chr", "chrom_") are stripped
//   - leading zeroes are dropped ("01" becomes "1"; bgenix emits these)
//   - PGS-Catalog numeric sex chromosomes are aliased (23=X, 24=Y, 25=MT)
//   - "M" is aliased to "MT"
func NormalizeChromosome(chromosome string) string {
	chromosome = strings.TrimPrefix(chromosome, "chrom_")
	chromosome = strings.TrimPrefix(chromosome, "chr")

	// Eliminate leading zeroes. If the name cannot be parsed as an integer,
	// it is a sex or mitochondrial chromosome and is left as-is.
	if chrInt, err := strconv.Atoi(chromosome); err == nil {
		switch chrInt {
		case 23:
			return "X"
		case 24:
			return "Y"
		case 25:
			return "MT"
		}

		return strconv.Itoa(chrInt)
	}

	if chromosome == "M" {
		return "MT"
	}

	return chromosome
}

// NormalizedLocus builds the canonical join key for a chromosome and
// position pair.
func NormalizedLocus(chromosome string, position int) Locus {
	return Locus{
		Chromosome: NormalizeChromosome(chromosome),
		Position:   position,
	}
}
