package analysis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

const (
	distributionBins = 5
	minDistValues    = 10
)

// Bin is one equal-width histogram bucket.
type Bin struct {
	Range      string  `json:"range"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution builds a 5-bin histogram over [min, max] of col. Bins are
// [lower, upper) except the last, which includes max. Nil below 10 values
// or when the range overflows.
func Distribution(rows []dataset.Row, col string) []Bin {
	if col == "" {
		return nil
	}
	vals := finite(NumericColumn(rows, col))
	if len(vals) < minDistValues {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / distributionBins
	if math.IsInf(width, 0) {
		return nil
	}
	if width == 0 {
		width = 1
	}
	bins := make([]Bin, distributionBins)
	for i := range bins {
		lower := lo + float64(i)*width
		upper := lower + width
		if i == distributionBins-1 {
			upper = hi
		}
		bins[i] = Bin{Lower: lower, Upper: upper, Range: FormatNum(lower) + "-" + FormatNum(upper)}
	}
	for _, v := range vals {
		i := int(math.Floor((v - lo) / width))
		if i < 0 {
			i = 0
		}
		if i >= distributionBins {
			i = distributionBins - 1
		}
		// Counts must agree with the reported edges, not the division.
		for i < distributionBins-1 && v >= bins[i+1].Lower {
			i++
		}
		for i > 0 && v < bins[i].Lower {
			i--
		}
		bins[i].Count++
	}
	for i := range bins {
		bins[i].Percentage = float64(bins[i].Count) / float64(len(vals)) * 100
	}
	return bins
}

// FormatNum abbreviates large magnitudes with K/M and keeps at most two decimals.
func FormatNum(n float64) string {
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0):
		return "-"
	case math.Abs(n) >= 1_000_000:
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case math.Abs(n) >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	default:
		return strconv.FormatFloat(math.Round(n*100)/100, 'f', -1, 64)
	}
}
