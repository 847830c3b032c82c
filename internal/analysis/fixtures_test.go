package analysis

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// salesTable has 24 monthly rows: a date, a 3-value region, two perfectly
// correlated measures and a free-text column.
func salesTable() *dataset.Table {
	cols := []string{"Date", "Region", "Sales", "Units", "Notes"}
	regions := []string{"North", "South", "East"}
	start := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	var recs [][]string
	for i := 0; i < 24; i++ {
		recs = append(recs, []string{
			start.AddDate(0, i, 0).Format("2006-01-02"),
			regions[i%3],
			fmt.Sprint(100 + 10*i),
			fmt.Sprint(2*i + 1),
			fmt.Sprintf("note %d", i),
		})
	}
	t := dataset.NewTable(cols, recs)
	t.Name = "sales.csv"
	return t
}

func rowsOf(col string, vals ...any) []dataset.Row {
	out := make([]dataset.Row, len(vals))
	for i, v := range vals {
		out[i] = dataset.Row{col: dataset.FromAny(v)}
	}
	return out
}

func trendOf(periods []string, vals []float64) []TrendPoint {
	out := make([]TrendPoint, len(vals))
	for i := range vals {
		out[i] = TrendPoint{Period: periods[i], Value: vals[i]}
	}
	return out
}
