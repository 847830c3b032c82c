package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// BlankKey buckets empty cells in GroupCount.
const BlankKey = "(blank)"

// ValueCount is one bucket of GroupCount.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// NameValue is a labelled aggregate.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TrendPoint is one YYYY-MM period.
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// GroupCount counts rows per value of col, most frequent first. Ties keep
// first-seen order.
func GroupCount(rows []dataset.Row, col string) []ValueCount {
	idx := map[string]int{}
	out := []ValueCount{}
	for _, r := range rows {
		k := r[col].String()
		if k == "" {
			k = BlankKey
		}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, ValueCount{Value: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// SumBy sums valueKey per nameKey. Rows with an empty name or an unparseable
// value are left out, so a group exists only if it has at least one number.
func SumBy(rows []dataset.Row, nameKey, valueKey string) []NameValue {
	idx := map[string]int{}
	out := []NameValue{}
	for _, r := range rows {
		name := r[nameKey].String()
		if name == "" {
			continue
		}
		f, ok := r[valueKey].Float()
		if !ok {
			continue
		}
		i, seen := idx[name]
		if !seen {
			i = len(out)
			idx[name] = i
			out = append(out, NameValue{Name: name})
		}
		out[i].Value += f
	}
	return out
}

// AvgBy averages valueKey per nameKey over parseable values.
func AvgBy(rows []dataset.Row, nameKey, valueKey string) []NameValue {
	sums := SumBy(rows, nameKey, valueKey)
	counts := map[string]int{}
	for _, r := range rows {
		name := r[nameKey].String()
		if name == "" {
			continue
		}
		if _, ok := r[valueKey].Float(); ok {
			counts[name]++
		}
	}
	for i := range sums {
		sums[i].Value /= float64(counts[sums[i].Name])
	}
	return sums
}

// CountBy counts rows per nameKey, skipping empty names.
func CountBy(rows []dataset.Row, nameKey string) []NameValue {
	idx := map[string]int{}
	out := []NameValue{}
	for _, r := range rows {
		name := r[nameKey].String()
		if name == "" {
			continue
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, NameValue{Name: name})
		}
		out[i].Value++
	}
	return out
}

// SortTop returns a sorted copy truncated to k (k <= 0 keeps everything).
func SortTop(list []NameValue, k int, desc bool) []NameValue {
	out := append([]NameValue(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Value > out[j].Value
		}
		return out[i].Value < out[j].Value
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// MonthlyTrend counts rows per YYYY-MM of dateCol, ascending by period.
func MonthlyTrend(rows []dataset.Row, dateCol string) []TrendPoint {
	return monthly(rows, dateCol, func(dataset.Row) (float64, bool) { return 1, true })
}

// MonthlySum sums valueCol per YYYY-MM of dateCol, ascending by period.
func MonthlySum(rows []dataset.Row, dateCol, valueCol string) []TrendPoint {
	return monthly(rows, dateCol, func(r dataset.Row) (float64, bool) { return r[valueCol].Float() })
}

func monthly(rows []dataset.Row, dateCol string, val func(dataset.Row) (float64, bool)) []TrendPoint {
	out := []TrendPoint{}
	if dateCol == "" {
		return out
	}
	m := map[string]float64{}
	for _, r := range rows {
		t, ok := r[dateCol].Time()
		if !ok {
			continue
		}
		v, ok := val(r)
		if !ok {
			continue
		}
		m[t.Format("2006-01")] += v
	}
	for k, v := range m {
		if isFinite(v) {
			out = append(out, TrendPoint{Period: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Period, out[j].Period) < 0 })
	return out
}
