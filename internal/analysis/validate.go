package analysis

import (
	"fmt"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

const (
	minRowsForAnalysis = 5
	minFilledShare     = 0.1
)

// ValidateData reports data-quality problems; it never blocks analysis.
func ValidateData(t *dataset.Table) []string {
	if t.Len() == 0 {
		return []string{"No valid data found"}
	}
	var warnings []string
	n := t.Len()
	if n < minRowsForAnalysis {
		warnings = append(warnings, fmt.Sprintf("Dataset too small for meaningful analysis (minimum %d records required)", minRowsForAnalysis))
	}
	for _, col := range t.Columns {
		filled := 0
		for _, r := range t.Rows {
			if !r[col].IsEmpty() {
				filled++
			}
		}
		if float64(filled) < minFilledShare*float64(n) {
			warnings = append(warnings, fmt.Sprintf("Column %q has >90%% empty values", col))
		}
	}
	return warnings
}
