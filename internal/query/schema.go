package query

import (
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

const (
	minDimCardinality = 2
	maxDimCardinality = 100
	// unclassified columns with fewer sampled values than this are judged leniently
	minEvidence   = 5
	evidenceRows  = 200
	lenientNumMin = 0.6
)

// Schema is the dimension/measure view of a dataset used to resolve questions.
type Schema struct {
	Headers        []string `json:"headers"`
	Dims           []string `json:"dims"`
	Measures       []string `json:"measures"`
	DefaultDim     string   `json:"defaultDim"`
	DefaultMeasure string   `json:"defaultMeasure"`
}

// Cardinality counts distinct non-empty values of col.
func Cardinality(rows []dataset.Row, col string) int {
	seen := map[string]struct{}{}
	for _, r := range rows {
		if s := r[col].String(); s != "" {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

type measureStat struct {
	name        string
	sum, spread float64
}

// InferGenericSchema keeps categorical columns with 2..100 distinct values as
// dimensions, richest first, and ranks numeric columns as measures by total
// then by spread. Columns the profile skipped for lack of samples are judged
// leniently: mostly numeric makes a measure, otherwise a dimension candidate.
func InferGenericSchema(p *analysis.Profile, t *dataset.Table) Schema {
	s := Schema{Headers: []string{}, Dims: []string{}, Measures: []string{}}
	if t == nil {
		return s
	}
	s.Headers = append(s.Headers, t.Columns...)
	var cls analysis.Classification
	if p != nil {
		cls = p.Classification
	}

	type dimStat struct {
		name string
		card int
	}
	var dims []dimStat
	var measures []measureStat
	for _, col := range t.Columns {
		kind, ok := cls.KindOf(col)
		if !ok {
			kind, ok = lenientKind(t.Rows, col)
		}
		if !ok {
			continue
		}
		switch kind {
		case analysis.KindCategorical:
			card := Cardinality(t.Rows, col)
			if card >= minDimCardinality && card <= maxDimCardinality {
				dims = append(dims, dimStat{col, card})
			}
		case analysis.KindNumeric:
			measures = append(measures, measureOf(t.Rows, col))
		}
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].card > dims[j].card })
	sort.SliceStable(measures, func(i, j int) bool {
		if measures[i].sum != measures[j].sum {
			return measures[i].sum > measures[j].sum
		}
		return measures[i].spread > measures[j].spread
	})
	for _, d := range dims {
		s.Dims = append(s.Dims, d.name)
	}
	for _, m := range measures {
		s.Measures = append(s.Measures, m.name)
	}

	switch {
	case len(s.Dims) > 0:
		s.DefaultDim = s.Dims[0]
	case len(cls.Categorical()) > 0:
		s.DefaultDim = cls.Categorical()[0]
	case len(s.Headers) > 0:
		s.DefaultDim = s.Headers[0]
	}
	if len(s.Measures) > 0 {
		s.DefaultMeasure = s.Measures[0]
	}
	return s
}

// lenientKind classifies a column that had too few sampled values for
// DetectTypes. Columns with enough evidence that were still left unclassified
// (free text, identifiers, mixed values) stay out of the schema.
func lenientKind(rows []dataset.Row, col string) (analysis.ColumnKind, bool) {
	sample := rows
	if len(sample) > evidenceRows {
		sample = sample[:evidenceRows]
	}
	valid, nums, dates := 0, 0, 0
	for _, r := range sample {
		v := r[col]
		if v.IsEmpty() {
			continue
		}
		valid++
		if _, ok := v.Float(); ok {
			nums++
		} else if _, ok := v.Time(); ok {
			dates++
		}
	}
	if valid == 0 || valid >= minEvidence {
		return 0, false
	}
	switch {
	case float64(nums)/float64(valid) >= lenientNumMin:
		return analysis.KindNumeric, true
	case dates > 0:
		return analysis.KindDate, true
	default:
		return analysis.KindCategorical, true
	}
}

func measureOf(rows []dataset.Row, col string) measureStat {
	m := measureStat{name: col}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		f, ok := r[col].Float()
		if !ok {
			continue
		}
		m.sum += f
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if hi >= lo {
		m.spread = hi - lo
	}
	return m
}
