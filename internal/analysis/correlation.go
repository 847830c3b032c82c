package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	minCorrPairs     = 3
	corrThreshold    = 0.3
	maxRelationships = 8
)

// Pair is a Pearson correlation between two numeric columns.
type Pair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

// Relationship is a correlation weighted by variability and coverage.
type Relationship struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	R        float64 `json:"r"`
	Coverage float64 `json:"coverage"`
	Score    float64 `json:"score"`
}

// NumericColumn reads col as floats; NaN marks cells that are not numbers.
func NumericColumn(rows []dataset.Row, col string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if f, ok := r[col].Float(); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if isFinite(x) {
			out = append(out, x)
		}
	}
	return out
}

// completePairs keeps indices where both sides are finite.
func completePairs(xs, ys []float64) (a, b []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		a = append(a, xs[i])
		b = append(b, ys[i])
	}
	return a, b
}

// Corr is the pairwise-complete Pearson coefficient. It is NaN with fewer
// than three complete pairs or when either side is constant.
func Corr(xs, ys []float64) float64 {
	a, b := completePairs(xs, ys)
	if len(a) < minCorrPairs || constant(a) || constant(b) {
		return math.NaN()
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

func numericColumns(rows []dataset.Row, cols []string) [][]float64 {
	out := make([][]float64, len(cols))
	for i, c := range cols {
		out[i] = NumericColumn(rows, c)
	}
	return out
}

// correlatedPairs scans every unordered pair and keeps |r| > 0.3, strongest first.
func correlatedPairs(rows []dataset.Row, cols []string) []Pair {
	data := numericColumns(rows, cols)
	pairs := []Pair{}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := Corr(data[i], data[j])
			if math.IsNaN(r) || math.Abs(r) <= corrThreshold {
				continue
			}
			pairs = append(pairs, Pair{A: cols[i], B: cols[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
	return pairs
}

// BestNumericPair returns the strongest pair with |r| > 0.3, or nil.
func BestNumericPair(rows []dataset.Row, cols []string) *Pair {
	pairs := correlatedPairs(rows, cols)
	if len(pairs) == 0 {
		return nil
	}
	p := pairs[0]
	return &p
}

// TopCorrelations returns up to n pairs with |r| > 0.3 by descending |r|.
func TopCorrelations(rows []dataset.Row, cols []string, n int) []Pair {
	pairs := correlatedPairs(rows, cols)
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// Variance is the population variance of the finite values; 0 below three values.
func Variance(xs []float64) float64 {
	vals := finite(xs)
	if len(vals) < 3 {
		return 0
	}
	v, err := stats.PopulationVariance(vals)
	if err != nil || !isFinite(v) {
		return 0
	}
	return v
}

// RankRelationships scores |r| * sqrt(var(a)*var(b)) * sqrt(coverage) for
// pairs with |r| >= 0.3, where coverage is the share of rows where both
// columns are numeric. Top 8 by score.
func RankRelationships(rows []dataset.Row, cols []string) []Relationship {
	out := []Relationship{}
	if len(rows) == 0 {
		return out
	}
	data := numericColumns(rows, cols)
	variances := make([]float64, len(cols))
	for i := range data {
		variances[i] = Variance(data[i])
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := Corr(data[i], data[j])
			if math.IsNaN(r) || math.Abs(r) < corrThreshold {
				continue
			}
			a, _ := completePairs(data[i], data[j])
			coverage := float64(len(a)) / float64(len(rows))
			score := math.Abs(r) * math.Sqrt(variances[i]) * math.Sqrt(variances[j]) * math.Sqrt(coverage)
			if !isFinite(score) {
				continue
			}
			out = append(out, Relationship{
				A:        cols[i],
				B:        cols[j],
				R:        r,
				Coverage: coverage,
				Score:    score,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxRelationships {
		out = out[:maxRelationships]
	}
	return out
}
