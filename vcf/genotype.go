package vcf

import (
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// MissingGenotype is the VCF encoding of a fully missing diploid call.
const MissingGenotype = "./."

// genotypeField pulls the GT value out of the sample column by locating the
// GT key within the colon-delimited FORMAT column. A record without GT is
// treated as missing.
func genotypeField(format, sample string) string {
	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")

	for i, key := range keys {
		if key != "GT" {
			continue
		}
		if i < len(values) {
			return values[i]
		}
		break
	}

	return MissingGenotype
}

// EffectDosage counts how many of the call's two allele indices equal the
// resolved effect allele code (0 for ref, 1 for alt), i.e. the effect-allele
// dosage of a diploid genotype. Phasing is irrelevant to dosage, so "|" is
// treated as "/".
//
// The result is invalid when the genotype cannot contribute: any missing
// allele ("."), a non-diploid call, or an unparseable index. Allele codes
// above 1 would indicate a multiallelic record, which the reader never
// yields; if one slips through it simply contributes zero.
func (c *Call) EffectDosage(effectAlleleNumeric int) null.Int {
	genotype := strings.ReplaceAll(c.Genotype, "|", "/")

	indices := strings.Split(genotype, "/")
	if len(indices) != 2 {
		return null.Int{}
	}

	dosage := int64(0)
	for _, index := range indices {
		if index == "." {
			return null.Int{}
		}

		code, err := strconv.Atoi(index)
		if err != nil {
			return null.Int{}
		}

		if code == effectAlleleNumeric {
			dosage++
		}
	}

	return null.IntFrom(dosage)
}
