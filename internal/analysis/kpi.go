package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/montanaflynn/stats"
)

const (
	defaultKPILimit = 5
	minKPIValues    = 3
	iqrFence        = 1.5
	minKeptShare    = 0.7
	segmentSize     = 5
	// UnknownCategory labels rows whose category cell is empty.
	UnknownCategory = "Unknown"
)

// KPI summarizes one numeric column after IQR trimming.
type KPI struct {
	Name         string  `json:"name"`
	Sum          float64 `json:"sum"`
	Avg          float64 `json:"avg"`
	Std          float64 `json:"std"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	N            int     `json:"n"`
	OutlierRatio float64 `json:"outlierRatio"`
}

// CategoryKPI aggregates a numeric column for one category value.
type CategoryKPI struct {
	Category string  `json:"category"`
	Sum      float64 `json:"sum"`
	Avg      float64 `json:"avg"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Segments holds the leading and trailing categories by sum and by average.
type Segments struct {
	TopSum    []CategoryKPI `json:"topSum"`
	BottomSum []CategoryKPI `json:"bottomSum"`
	TopAvg    []CategoryKPI `json:"topAvg"`
	BottomAvg []CategoryKPI `json:"bottomAvg"`
}

// QuickKPIs computes KPIs for the first limit columns (5 when limit <= 0).
// Values outside Q1-1.5*IQR..Q3+1.5*IQR are dropped unless that would keep
// less than 70% of them. Columns with fewer than 3 numbers are skipped.
// Result is ordered by descending sum.
func QuickKPIs(rows []dataset.Row, cols []string, limit int) []KPI {
	if limit <= 0 {
		limit = defaultKPILimit
	}
	if len(cols) > limit {
		cols = cols[:limit]
	}
	out := []KPI{}
	for _, c := range cols {
		vals := finite(NumericColumn(rows, c))
		if len(vals) < minKPIValues {
			continue
		}
		if k, ok := kpiFor(c, vals); ok {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sum > out[j].Sum })
	return out
}

// kpiFor reports false when an aggregate overflows.
func kpiFor(name string, vals []float64) (KPI, bool) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1
	lo, hi := q1-iqrFence*iqr, q3+iqrFence*iqr
	clean := make([]float64, 0, n)
	for _, v := range vals {
		if v >= lo && v <= hi {
			clean = append(clean, v)
		}
	}
	used := vals
	if float64(len(clean)) >= minKeptShare*float64(n) {
		used = clean
	}
	sum, _ := stats.Sum(used)
	mean, _ := stats.Mean(used)
	std, _ := stats.StandardDeviationPopulation(used)
	minV, _ := stats.Min(used)
	maxV, _ := stats.Max(used)
	if !isFinite(sum) || !isFinite(mean) || !isFinite(std) {
		return KPI{}, false
	}
	return KPI{
		Name:         name,
		Sum:          sum,
		Avg:          mean,
		Std:          std,
		Min:          minV,
		Max:          maxV,
		N:            len(used),
		OutlierRatio: float64(n-len(used)) / float64(n),
	}, true
}

// CategoryKPIs groups valueCol by categoryCol, skipping non-numeric values.
// Empty categories are labelled Unknown; groups whose sum overflows are
// dropped. Ordered by descending sum.
func CategoryKPIs(rows []dataset.Row, categoryCol, valueCol string) []CategoryKPI {
	out := []CategoryKPI{}
	if categoryCol == "" || valueCol == "" {
		return out
	}
	idx := map[string]int{}
	for _, r := range rows {
		v, ok := r[valueCol].Float()
		if !ok {
			continue
		}
		cat := r[categoryCol].String()
		if cat == "" {
			cat = UnknownCategory
		}
		i, seen := idx[cat]
		if !seen {
			i = len(out)
			idx[cat] = i
			out = append(out, CategoryKPI{Category: cat, Min: v, Max: v})
		}
		g := &out[i]
		g.Sum += v
		g.Count++
		g.Min = math.Min(g.Min, v)
		g.Max = math.Max(g.Max, v)
	}
	kept := out[:0]
	for _, g := range out {
		g.Avg = g.Sum / float64(g.Count)
		if isFinite(g.Sum) {
			kept = append(kept, g)
		}
	}
	out = kept
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sum > out[j].Sum })
	return out
}

// TopBottomSegments returns the five highest and lowest categories by sum and
// by average; bottom slices list the lowest first. Nil when kpis is empty.
func TopBottomSegments(kpis []CategoryKPI) *Segments {
	if len(kpis) == 0 {
		return nil
	}
	bySum := append([]CategoryKPI(nil), kpis...)
	sort.SliceStable(bySum, func(i, j int) bool { return bySum[i].Sum > bySum[j].Sum })
	byAvg := append([]CategoryKPI(nil), kpis...)
	sort.SliceStable(byAvg, func(i, j int) bool { return byAvg[i].Avg > byAvg[j].Avg })
	return &Segments{
		TopSum:    head(bySum, segmentSize),
		BottomSum: tailReversed(bySum, segmentSize),
		TopAvg:    head(byAvg, segmentSize),
		BottomAvg: tailReversed(byAvg, segmentSize),
	}
}

func head(xs []CategoryKPI, n int) []CategoryKPI {
	if len(xs) > n {
		xs = xs[:n]
	}
	return append([]CategoryKPI(nil), xs...)
}

func tailReversed(xs []CategoryKPI, n int) []CategoryKPI {
	start := len(xs) - n
	if start < 0 {
		start = 0
	}
	out := make([]CategoryKPI, 0, len(xs)-start)
	for i := len(xs) - 1; i >= start; i-- {
		out = append(out, xs[i])
	}
	return out
}
