package scorefile

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/InquilineKea/pgscore"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

const catalogFile = `#pgs_id=PGS000018
#trait_mapped=coronary artery disease
#genome_build=GRCh37
#variants_number=3
rsID	chr_name	chr_position	effect_allele	other_allele	effect_weight	allelefrequency_effect
rs1333049	9	22125503	C	G	0.2
rs10757278	9	22124477	G	A	0.15
rs4977574	chr9	22098574	G	A	-0.05
`

func TestLoadCatalogFile(t *testing.T) {
	path := writeTemp(t, "pgs.txt", catalogFile)

	model, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if model.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", model.Len())
	}

	entry, ok := model.Lookup(pgscore.Locus{Chromosome: "9", Position: 22125503})
	if !ok {
		t.Fatal("expected a lookup hit at 9:22125503")
	}
	if entry.SNP != "rs1333049" ||
		entry.EffectAllele != Allele("C") ||
		entry.OtherAllele != Allele("G") ||
		entry.Weight != 0.2 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// The chr-prefixed row must land under the normalized chromosome
	if _, ok := model.Lookup(pgscore.Locus{Chromosome: "9", Position: 22098574}); !ok {
		t.Error("expected chr9 row to be keyed under chromosome 9")
	}

	if model.Meta.PGSID != "PGS000018" {
		t.Errorf("pgs_id = %q", model.Meta.PGSID)
	}
	if model.Meta.GenomeBuild != "GRCh37" {
		t.Errorf("genome_build = %q", model.Meta.GenomeBuild)
	}
	if model.Meta.VariantCount != 3 {
		t.Errorf("variants_number = %d", model.Meta.VariantCount)
	}
}

func TestLoadCatalogFileGzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgs.txt.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(catalogFile)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	model, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if model.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", model.Len())
	}
}

func TestLoadGWAS8Detection(t *testing.T) {
	path := writeTemp(t, "gwas.tsv", strings.Join([]string{
		"rs123\t1\t1000\tC\tT\t0.41\t0.12\t0.01",
		"rs456\t2\t2000\tA\tG\t0.05\t-0.3\t0.02\t1e-8",
		"",
	}, "\n"))

	model, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if model.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", model.Len())
	}

	entry, ok := model.Lookup(pgscore.Locus{Chromosome: "1", Position: 1000})
	if !ok {
		t.Fatal("expected a lookup hit at 1:1000")
	}
	// BETA weights the ALT allele in this convention
	if entry.EffectAllele != Allele("T") || entry.OtherAllele != Allele("C") || entry.Weight != 0.12 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.SNP != "rs123" {
		t.Errorf("SNP = %q", entry.SNP)
	}
}

func TestLoadDuplicateLocusLastWins(t *testing.T) {
	path := writeTemp(t, "dup.txt", strings.Join([]string{
		"chr_name\tchr_position\teffect_allele\tother_allele\teffect_weight",
		"1\t100\tT\tC\t0.5",
		"1\t100\tT\tC\t0.9",
		"",
	}, "\n"))

	model, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if model.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", model.Len())
	}

	entry, _ := model.Lookup(pgscore.Locus{Chromosome: "1", Position: 100})
	if entry.Weight != 0.9 {
		t.Errorf("expected the later row to win, got weight %f", entry.Weight)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeTemp(t, "bad.txt", strings.Join([]string{
		"chr_name\tchr_position\teffect_allele\teffect_weight",
		"1\t100\tT\t0.5",
		"",
	}, "\n"))

	_, err := Load(path)

	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected a MalformedError, got %v", err)
	}
	if malformed.Line != 1 {
		t.Errorf("expected line 1, got %d", malformed.Line)
	}
	if !strings.Contains(malformed.Reason, "other_allele") {
		t.Errorf("reason should name the missing column: %s", malformed.Reason)
	}
}

func TestLoadMalformedWeight(t *testing.T) {
	path := writeTemp(t, "bad.txt", strings.Join([]string{
		"#genome_build=GRCh38",
		"chr_name\tchr_position\teffect_allele\tother_allele\teffect_weight",
		"1\t100\tT\tC\t0.5",
		"1\t200\tA\tG\tnot-a-number",
		"",
	}, "\n"))

	_, err := Load(path)

	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected a MalformedError, got %v", err)
	}
	if malformed.Line != 4 {
		t.Errorf("expected line 4, got %d", malformed.Line)
	}
}

func TestLoadMalformedPosition(t *testing.T) {
	path := writeTemp(t, "bad.txt", strings.Join([]string{
		"chr_name\tchr_position\teffect_allele\tother_allele\teffect_weight",
		"1\tzero\tT\tC\t0.5",
		"",
	}, "\n"))

	var malformed *MalformedError
	if _, err := Load(path); !errors.As(err, &malformed) {
		t.Fatalf("expected a MalformedError, got %v", err)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected a NotFoundError, got %v", err)
	}
}

func TestLoadFileLargerThanSniffWindow(t *testing.T) {
	// Layout detection peeks at a bounded window that ends mid-line on
	// files this size; the cut-off fragment must not disturb detection or
	// lose rows.
	rows := []string{"chr_name\tchr_position\teffect_allele\tother_allele\teffect_weight"}
	for i := 1; i <= 6000; i++ {
		rows = append(rows, strings.Join([]string{"1", strconv.Itoa(i * 100), "T", "C", "0.01"}, "\t"))
	}
	rows = append(rows, "")

	content := strings.Join(rows, "\n")
	if len(content) <= sniffBytes {
		t.Fatalf("fixture must exceed the sniff window, got %d bytes", len(content))
	}

	model, err := Load(writeTemp(t, "big.txt", content))
	if err != nil {
		t.Fatal(err)
	}
	if model.Len() != 6000 {
		t.Errorf("expected 6000 entries, got %d", model.Len())
	}
	if _, ok := model.Lookup(pgscore.Locus{Chromosome: "1", Position: 600000}); !ok {
		t.Error("expected the final row to be loaded")
	}
}

func TestLoadEntryCountMatchesRows(t *testing.T) {
	// N valid rows with no duplicate loci => N entries
	rows := []string{"chr_name\tchr_position\teffect_allele\tother_allele\teffect_weight"}
	for i := 1; i <= 50; i++ {
		rows = append(rows, strings.Join([]string{"1", strconv.Itoa(i * 100), "T", "C", "0.01"}, "\t"))
	}
	rows = append(rows, "")

	model, err := Load(writeTemp(t, "n.txt", strings.Join(rows, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	if model.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", model.Len())
	}
}
