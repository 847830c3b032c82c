package analysis

import (
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// ColumnKind is the classification tag of one column.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota + 1
	KindCategorical
	KindDate
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindDate:
		return "date"
	default:
		return "unclassified"
	}
}

// ColumnClass pairs a column with its kind.
type ColumnClass struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Classification lists classified columns in table order. Columns with too
// few valid samples are absent.
type Classification struct {
	Columns []ColumnClass `json:"columns"`
}

// Numeric returns numeric column names in table order.
func (c Classification) Numeric() []string { return c.names(KindNumeric) }

// Categorical returns categorical column names in table order.
func (c Classification) Categorical() []string { return c.names(KindCategorical) }

// Dates returns date column names in table order.
func (c Classification) Dates() []string { return c.names(KindDate) }

// KindOf reports the kind of name, or false when the column is unclassified.
func (c Classification) KindOf(name string) (ColumnKind, bool) {
	for _, cc := range c.Columns {
		if cc.Name == name {
			return cc.Kind, true
		}
	}
	return 0, false
}

func (c Classification) names(k ColumnKind) []string {
	out := []string{}
	for _, cc := range c.Columns {
		if cc.Kind == k {
			out = append(out, cc.Name)
		}
	}
	return out
}

const (
	sampleLimit      = 200
	minValidSamples  = 5
	minTypedHits     = 10
	dateRatioMin     = 0.3
	numRatioMin      = 0.6
	maxCategories    = 50
	categoricalShare = 0.3
	distinctPrefix   = 100
)

// DetectTypes samples the first 200 rows of each column. Date wins over
// numeric, numeric over categorical; each needs an absolute hit count too.
func DetectTypes(t *dataset.Table) Classification {
	cls := Classification{Columns: []ColumnClass{}}
	if t.Len() == 0 {
		return cls
	}
	sample := t.Head(sampleLimit)
	for _, col := range t.Columns {
		valid, nums, dates := 0, 0, 0
		distinct := make(map[string]struct{})
		for _, r := range sample {
			v := r[col]
			if v.IsEmpty() {
				continue
			}
			valid++
			if _, ok := v.Float(); ok {
				nums++
			}
			if _, ok := v.Time(); ok {
				dates++
			}
			distinct[truncateRunes(v.String(), distinctPrefix)] = struct{}{}
		}
		if valid < minValidSamples {
			continue
		}
		numRatio := float64(nums) / float64(valid)
		dateRatio := float64(dates) / float64(valid)
		uniq := len(distinct)
		catCap := categoricalShare * float64(valid)
		if catCap > maxCategories {
			catCap = maxCategories
		}
		switch {
		case dateRatio >= dateRatioMin && dates >= minTypedHits:
			cls.Columns = append(cls.Columns, ColumnClass{Name: col, Kind: KindDate})
		case numRatio >= numRatioMin && nums >= minTypedHits:
			cls.Columns = append(cls.Columns, ColumnClass{Name: col, Kind: KindNumeric})
		case uniq > 1 && float64(uniq) <= catCap:
			cls.Columns = append(cls.Columns, ColumnClass{Name: col, Kind: KindCategorical})
		}
	}
	return cls
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
