package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

const (
	minSeasonPoints  = 6
	minSeasonMonths  = 3
	minAnomalyPoints = 8
	anomalyZ         = 2.0
)

// SeasonPoint is the average trend value for a calendar month.
type SeasonPoint struct {
	Month   int     `json:"month"`
	Average float64 `json:"average"`
}

// Anomaly is a trend point far from the series mean.
type Anomaly struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Z      float64 `json:"z"`
}

// DetectSeasonality averages trend values per calendar month. Nil with fewer
// than 6 points or fewer than 3 distinct months.
func DetectSeasonality(trend []TrendPoint) []SeasonPoint {
	if len(trend) < minSeasonPoints {
		return nil
	}
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, p := range trend {
		m, ok := periodMonth(p.Period)
		if !ok {
			continue
		}
		sums[m] += p.Value
		counts[m]++
	}
	if len(counts) < minSeasonMonths {
		return nil
	}
	out := make([]SeasonPoint, 0, len(counts))
	for m, c := range counts {
		if avg := sums[m] / float64(c); isFinite(avg) {
			out = append(out, SeasonPoint{Month: m, Average: avg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func periodMonth(period string) (int, bool) {
	_, mm, ok := strings.Cut(period, "-")
	if !ok {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

// DetectAnomalies flags points with |z| >= 2 against the population mean and
// standard deviation of the series, strongest first. Empty below 8 points or
// for a flat series.
func DetectAnomalies(trend []TrendPoint) []Anomaly {
	out := []Anomaly{}
	if len(trend) < minAnomalyPoints {
		return out
	}
	vals := make([]float64, len(trend))
	for i, p := range trend {
		vals[i] = p.Value
	}
	mean, _ := stats.Mean(vals)
	sd, _ := stats.StandardDeviationPopulation(vals)
	if sd == 0 || math.IsNaN(sd) {
		return out
	}
	for _, p := range trend {
		z := (p.Value - mean) / sd
		if math.Abs(z) >= anomalyZ {
			out = append(out, Anomaly{Period: p.Period, Value: p.Value, Z: z})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].Z) > math.Abs(out[j].Z) })
	return out
}
