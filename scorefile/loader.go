package scorefile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/InquilineKea/pgscore"
)

// Score files distributed by the PGS Catalog can run to thousands of
// variants with long harmonization columns, so give the scanner headroom.
const maxLineBytes = 1024 * 1024

const sniffBytes = 64 * 1024

var variantIDPattern = regexp.MustCompile(`^(rs|ss)\d+$`)

// Load reads a score-model file (optionally compressed), detecting its
// layout from content: a first data token that looks like a variant ID
// (e.g. rs12345) means the headerless GWAS8 shape, otherwise a
// PGS-Catalog-style header row is expected.
func Load(path string) (*Model, error) {
	return load(path, nil)
}

// LoadWithLayout reads a score-model file using an explicit layout from the
// Layouts registry (or one built by the caller), skipping detection.
func LoadWithLayout(path string, layout Layout) (*Model, error) {
	return load(path, &layout)
}

func load(path string, layout *Layout) (*Model, error) {
	rc, err := pgscore.OpenMaybeCompressed(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffBytes)

	if layout == nil {
		detected, err := detectLayout(br, path)
		if err != nil {
			return nil, err
		}
		layout = &detected
	}

	model := NewModel()

	cols := layout.Columns
	headerBound := !layout.HeaderRow

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if layout.Comment != 0 && strings.HasPrefix(line, string(layout.Comment)) {
			absorbMeta(&model.Meta, line)
			continue
		}

		fields := splitRow(line, layout.Delimiter)

		if !headerBound {
			cols, err = bindHeader(fields, layout.Names, path, lineNo)
			if err != nil {
				return nil, err
			}
			headerBound = true
			continue
		}

		entry, err := parseRow(fields, cols, path, lineNo)
		if err != nil {
			return nil, err
		}

		model.Add(entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return model, nil
}

// detectLayout peeks at the head of the stream and decides between the
// registered layouts without consuming any input. The delimiter is detected
// from the non-comment lines (LDpred-derived files are space-delimited),
// then the first data token is classified.
func detectLayout(br *bufio.Reader, path string) (Layout, error) {
	peek, err := br.Peek(sniffBytes)
	if len(peek) == 0 && err != nil {
		return Layout{}, &MalformedError{Path: path, Line: 1, Reason: "file is empty"}
	}

	lines := strings.Split(string(peek), "\n")

	// A full peek window almost certainly ends mid-line; the trailing
	// fragment would skew delimiter detection, so it does not participate.
	if err == nil && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}

	var sample []string
	var firstData string
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sample = append(sample, line)
		if firstData == "" {
			firstData = line
		}
	}

	if firstData == "" {
		return Layout{}, &MalformedError{Path: path, Line: 1, Reason: "no data rows found"}
	}

	delimiter := pgscore.DetermineDelimiter(strings.NewReader(strings.Join(sample, "\n")))

	fields := splitRow(firstData, delimiter)

	name := "PGSCATALOG"
	if variantIDPattern.MatchString(fields[0]) {
		name = "GWAS8"
	} else if !isHeaderToken(fields[0]) && len(fields) >= 8 {
		// Headerless files whose variant IDs are not rsIDs (e.g. 1:123:C:T)
		// still betray themselves by a numeric position in the third column.
		if _, err := strconv.Atoi(fields[2]); err == nil {
			name = "GWAS8"
		}
	}

	layout := Layouts[name]
	layout.Delimiter = delimiter

	return layout, nil
}

func isHeaderToken(token string) bool {
	for _, l := range Layouts {
		if !l.HeaderRow {
			continue
		}
		for _, name := range []string{l.Names.Chromosome, l.Names.Position, l.Names.EffectAllele, l.Names.OtherAllele, l.Names.Weight} {
			if token == name {
				return true
			}
		}
	}

	// Harmonized catalog files sometimes lead with the rsID column
	return token == "rsID" || token == "SNP"
}

// splitRow splits one data line. Space-delimited files commonly pad with
// runs of spaces, so those are split on any whitespace.
func splitRow(line string, delimiter rune) []string {
	if delimiter == ' ' {
		return strings.Fields(line)
	}

	return strings.Split(line, string(delimiter))
}

func bindHeader(fields []string, names ColumnNames, path string, lineNo int) (ColumnBinding, error) {
	index := make(map[string]int, len(fields))
	for i, name := range fields {
		index[name] = i
	}

	cols := ColumnBinding{SNP: -1}

	required := []struct {
		name string
		dst  *int
	}{
		{names.Chromosome, &cols.Chromosome},
		{names.Position, &cols.Position},
		{names.EffectAllele, &cols.EffectAllele},
		{names.OtherAllele, &cols.OtherAllele},
		{names.Weight, &cols.Weight},
	}

	for _, req := range required {
		i, ok := index[req.name]
		if !ok {
			return cols, &MalformedError{
				Path:   path,
				Line:   lineNo,
				Reason: fmt.Sprintf("required column %q is missing from the header", req.name),
			}
		}
		*req.dst = i
	}

	if i, ok := index["rsID"]; ok {
		cols.SNP = i
	}

	return cols, nil
}

func parseRow(fields []string, cols ColumnBinding, path string, lineNo int) (Entry, error) {
	e := Entry{}

	if len(fields) <= cols.maxColumn() {
		return e, &MalformedError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("row has %d columns but the layout requires at least %d", len(fields), cols.maxColumn()+1),
		}
	}

	e.Chromosome = fields[cols.Chromosome]
	e.EffectAllele = Allele(fields[cols.EffectAllele])
	e.OtherAllele = Allele(fields[cols.OtherAllele])
	if cols.SNP >= 0 {
		e.SNP = fields[cols.SNP]
	}

	pos, err := strconv.Atoi(fields[cols.Position])
	if err != nil || pos < 1 {
		return e, &MalformedError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("chromosome position %q is not a positive integer", fields[cols.Position]),
		}
	}
	e.Position = pos

	weight, err := strconv.ParseFloat(fields[cols.Weight], 64)
	if err != nil {
		return e, &MalformedError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("effect weight %q is not a number", fields[cols.Weight]),
		}
	}
	e.Weight = weight

	return e, nil
}

// absorbMeta captures the #key=value metadata convention of PGS Catalog
// files. Unknown keys and bare comments are ignored.
func absorbMeta(meta *Meta, line string) {
	fields := strings.SplitN(strings.TrimPrefix(line, "#"), "=", 2)
	if len(fields) != 2 {
		return
	}

	switch strings.ToLower(strings.TrimSpace(fields[0])) {
	case "pgs_id":
		meta.PGSID = fields[1]
	case "trait_mapped", "trait_reported":
		if meta.Trait == "" {
			meta.Trait = fields[1]
		}
	case "genome_build":
		meta.GenomeBuild = fields[1]
	case "variants_number":
		if value, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil {
			meta.VariantCount = value
		}
	}
}
