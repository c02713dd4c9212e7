package scorefile

import "strings"

// ColumnBinding maps the required score-model fields to 0-based column
// indices. A binding of -1 means the field is absent from the file (only
// SNP may be absent).
type ColumnBinding struct {
	SNP          int
	Chromosome   int
	Position     int
	EffectAllele int
	OtherAllele  int
	Weight       int
}

// ColumnNames maps the required score-model fields to header-row column
// names for layouts that carry a header.
type ColumnNames struct {
	Chromosome   string
	Position     string
	EffectAllele string
	OtherAllele  string
	Weight       string
}

// Layout describes the shape of a score file: its delimiter, its comment
// rune, and how the required fields are found. When HeaderRow is set, the
// first non-comment line names the columns and Names is resolved against it
// before any data row is parsed; otherwise Columns is used directly.
type Layout struct {
	Delimiter rune
	Comment   rune
	HeaderRow bool
	Columns   ColumnBinding
	Names     ColumnNames
}

var Layouts = map[string]Layout{
	// The PGS Catalog convention: #-prefixed metadata, then a tab-delimited
	// header row, then data rows keyed by that header.
	"PGSCATALOG": {
		Delimiter: '\t',
		Comment:   '#',
		HeaderRow: true,
		Names: ColumnNames{
			Chromosome:   "chr_name",
			Position:     "chr_position",
			EffectAllele: "effect_allele",
			OtherAllele:  "other_allele",
			Weight:       "effect_weight",
		},
	},
	// Headerless GWAS-summary convention: SNP CHR POS REF ALT ALT_FREQ BETA
	// SE [PVAL]. BETA is the weight on the ALT allele, so ALT is the effect
	// allele and REF the other.
	"GWAS8": {
		Delimiter: '\t',
		Comment:   '#',
		Columns: ColumnBinding{
			SNP:          0,
			Chromosome:   1,
			Position:     2,
			OtherAllele:  3,
			EffectAllele: 4,
			Weight:       6,
		},
	},
}

// LayoutNames lists the registered layout names for CLI help text.
func LayoutNames() string {
	b := strings.Builder{}
	i := 0
	for m := range Layouts {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(m)
		i++
	}

	return b.String()
}

// maxColumn reports the highest bound column index, i.e. the minimum row
// width this binding can be applied to minus one.
func (c ColumnBinding) maxColumn() int {
	max := c.Chromosome
	for _, col := range []int{c.SNP, c.Position, c.EffectAllele, c.OtherAllele, c.Weight} {
		if col > max {
			max = col
		}
	}

	return max
}
