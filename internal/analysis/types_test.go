package analysis

import (
	"fmt"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTypes(t *testing.T) {
	cls := DetectTypes(salesTable())
	assert.Equal(t, []string{"Date"}, cls.Dates())
	assert.Equal(t, []string{"Region"}, cls.Categorical())
	assert.Equal(t, []string{"Sales", "Units"}, cls.Numeric())

	_, ok := cls.KindOf("Notes")
	assert.False(t, ok, "free text has too many distinct values to group by")

	seen := map[string]int{}
	for _, names := range [][]string{cls.Numeric(), cls.Categorical(), cls.Dates()} {
		for _, n := range names {
			seen[n]++
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "column %s classified more than once", name)
	}
}

func TestDetectTypesNeedsEnoughSamples(t *testing.T) {
	tbl := dataset.FromMaps([]string{"Region", "Sales"}, []map[string]any{
		{"Region": "EMEA", "Sales": 100},
		{"Region": "EMEA", "Sales": 50},
		{"Region": "APAC", "Sales": 200},
	})
	cls := DetectTypes(tbl)
	assert.Empty(t, cls.Columns)
}

func TestDetectTypesMostlyNumeric(t *testing.T) {
	var recs [][]string
	for i := 0; i < 20; i++ {
		v := fmt.Sprintf("%d,000", i+1)
		if i%5 == 0 {
			v = "n/a"
		}
		recs = append(recs, []string{v})
	}
	cls := DetectTypes(dataset.NewTable([]string{"Revenue"}, recs))
	require.Len(t, cls.Columns, 1)
	assert.Equal(t, KindNumeric, cls.Columns[0].Kind)
	assert.Equal(t, "numeric", cls.Columns[0].Kind.String())
}

func TestDetectTypesEmptyTable(t *testing.T) {
	assert.Empty(t, DetectTypes(&dataset.Table{}).Columns)
}
