package analysis

import (
	"fmt"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateData(t *testing.T) {
	assert.Equal(t, []string{"No valid data found"}, ValidateData(&dataset.Table{}))

	small := dataset.FromMaps([]string{"a"}, []map[string]any{{"a": 1}, {"a": 2}, {"a": 3}})
	w := ValidateData(small)
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "too small")

	var recs [][]string
	for i := 0; i < 20; i++ {
		note := ""
		if i == 0 {
			note = "only one"
		}
		recs = append(recs, []string{fmt.Sprint(i), note})
	}
	w = ValidateData(dataset.NewTable([]string{"id", "Notes"}, recs))
	assert.Equal(t, []string{`Column "Notes" has >90% empty values`}, w)

	assert.Empty(t, ValidateData(salesTable()))
}
