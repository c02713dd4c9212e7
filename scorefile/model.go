package scorefile

import (
	"github.com/InquilineKea/pgscore"
	"github.com/montanaflynn/stats"
)

// Meta holds the #key=value metadata lines of a PGS Catalog score file.
// Files without metadata leave it zero-valued.
type Meta struct {
	PGSID        string
	Trait        string
	GenomeBuild  string
	VariantCount int
}

// Model is an in-memory score model: at most one Entry per distinct
// normalized locus. It is built once by Load and read-only thereafter.
type Model struct {
	Meta    Meta
	entries map[pgscore.Locus]Entry
}

func NewModel() *Model {
	return &Model{
		entries: make(map[pgscore.Locus]Entry),
	}
}

// Add inserts an entry under its normalized locus. If the locus is already
// present, the later entry wins; source files occasionally repeat loci and
// last-write-wins is the documented policy.
func (m *Model) Add(e Entry) {
	m.entries[e.Locus()] = e
}

// Lookup finds the entry for an already-normalized locus.
func (m *Model) Lookup(locus pgscore.Locus) (Entry, bool) {
	e, ok := m.entries[locus]
	return e, ok
}

// Len is the number of distinct loci in the model.
func (m *Model) Len() int {
	return len(m.entries)
}

// Entries returns the model's entries in map order.
func (m *Model) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}

	return out
}

// ByChromosome groups the model's entries by normalized chromosome, which
// is convenient for per-chromosome genotype sources.
func (m *Model) ByChromosome() map[string][]Entry {
	output := make(map[string][]Entry)

	for locus, e := range m.entries {
		output[locus.Chromosome] = append(output[locus.Chromosome], e)
	}

	return output
}

// Weights returns every effect weight in the model, in map order.
func (m *Model) Weights() []float64 {
	out := make([]float64, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Weight)
	}

	return out
}

// WeightStats summarizes the distribution of effect weights. Useful as a
// sanity check that a score file was parsed with the right columns: a
// weight column misread as positions produces absurd values here.
type WeightStats struct {
	Mean float64
	SD   float64
	Min  float64
	Max  float64
}

func (m *Model) WeightStats() (WeightStats, error) {
	data := stats.Float64Data(m.Weights())

	out := WeightStats{}
	var err error

	if out.Mean, err = data.Mean(); err != nil {
		return out, err
	}
	if out.SD, err = data.StandardDeviation(); err != nil {
		return out, err
	}
	if out.Min, err = data.Min(); err != nil {
		return out, err
	}
	if out.Max, err = data.Max(); err != nil {
		return out, err
	}

	return out, nil
}
