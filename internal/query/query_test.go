package query

import (
	"fmt"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionSales() (*dataset.Table, *analysis.Profile) {
	t := dataset.FromMaps([]string{"Region", "Sales"}, []map[string]any{
		{"Region": "EMEA", "Sales": 100},
		{"Region": "EMEA", "Sales": 50},
		{"Region": "APAC", "Sales": 200},
	})
	return t, analysis.BuildProfile(t, analysis.DefaultOptions())
}

func ordersTable() *dataset.Table {
	regions := []string{"North", "South", "East"}
	channels := []string{"Web", "Store"}
	var recs [][]string
	for i := 0; i < 24; i++ {
		recs = append(recs, []string{
			regions[i%3], channels[i%2], fmt.Sprint(1000 + i), fmt.Sprint(i), "x",
		})
	}
	return dataset.NewTable([]string{"Region", "Channel", "Sales", "Units", "Flag"}, recs)
}

func TestInferGenericSchemaSmallTable(t *testing.T) {
	tbl, p := regionSales()
	s := InferGenericSchema(p, tbl)
	assert.Equal(t, []string{"Region", "Sales"}, s.Headers)
	assert.Equal(t, []string{"Region"}, s.Dims)
	assert.Equal(t, []string{"Sales"}, s.Measures)
	assert.Equal(t, "Region", s.DefaultDim)
	assert.Equal(t, "Sales", s.DefaultMeasure)
}

func TestInferGenericSchemaOrdering(t *testing.T) {
	tbl := ordersTable()
	s := InferGenericSchema(analysis.BuildProfile(tbl, analysis.DefaultOptions()), tbl)
	assert.Equal(t, []string{"Region", "Channel"}, s.Dims, "richer dimensions first")
	assert.Equal(t, []string{"Sales", "Units"}, s.Measures, "larger totals first")
	for _, d := range s.Dims {
		card := Cardinality(tbl.Rows, d)
		assert.True(t, card >= 2 && card <= 100, "dimension %s has cardinality %d", d, card)
	}
	assert.NotContains(t, s.Dims, "Flag", "a single value cannot group")
}

func TestInferGenericSchemaMeasureSpreadBreaksTies(t *testing.T) {
	var recs [][]string
	for i := 0; i < 12; i++ {
		flat, wide := 10, 0
		if i%2 == 0 {
			wide = 20
		}
		recs = append(recs, []string{fmt.Sprint(flat), fmt.Sprint(wide)})
	}
	tbl := dataset.NewTable([]string{"Flat", "Wide"}, recs)
	s := InferGenericSchema(analysis.BuildProfile(tbl, analysis.DefaultOptions()), tbl)
	assert.Equal(t, []string{"Wide", "Flat"}, s.Measures)
}

func TestParseQueryPrecedence(t *testing.T) {
	tbl := ordersTable()
	s := InferGenericSchema(analysis.BuildProfile(tbl, analysis.DefaultOptions()), tbl)
	cases := []struct {
		q    string
		want IntentType
	}{
		{"top region by total sales", IntentTop},
		{"which channel is best?", IntentTop},
		{"maximum sales by region", IntentTop},
		{"what is the maximum sales region?", IntentTop},
		{"largest units by channel", IntentTop},
		{"max sales", IntentTop},
		{"what is the total sales", IntentTotal},
		{"overall units", IntentTotal},
		{"average sales by region", IntentAvg},
		{"mean units", IntentAvg},
		{"counts by channel", IntentCountsBy},
		{"for each region how many orders", IntentCountsBy},
		{"most common channel", IntentMostCommon},
		{"most frequent region?", IntentMostCommon},
		{"what is it?", IntentFollowup},
		{"which one", IntentFollowup},
		{"what is the sales?", IntentFollowup},
		{"stop the presses", IntentUnknown},
		{"hello", IntentUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseQuery(c.q, s).Type, c.q)
	}
	in := ParseQuery("maximum sales by region", s)
	assert.Equal(t, "Region", in.Dim)
	assert.Equal(t, "Sales", in.Measure)
	assert.Empty(t, ParseQuery("what is the maximum sales region?", s).AskedHeader)

	assert.Len(t, rules, 5)
	assert.Equal(t, IntentTop, rules[0].name)
	assert.Equal(t, IntentFollowup, rules[len(rules)-1].name)
}

func TestParseQueryResolution(t *testing.T) {
	tbl := ordersTable()
	s := InferGenericSchema(analysis.BuildProfile(tbl, analysis.DefaultOptions()), tbl)

	in := ParseQuery("Top 3 channel by units", s)
	assert.Equal(t, Intent{Type: IntentTop, K: 3, Dim: "Channel", Measure: "Units"}, in)

	in = ParseQuery("top 0", s)
	assert.Equal(t, 1, in.K)
	assert.Equal(t, s.DefaultDim, in.Dim)
	assert.Equal(t, s.DefaultMeasure, in.Measure)

	in = ParseQuery("total units by channel", s)
	assert.Equal(t, Intent{Type: IntentTotal, Dim: "Channel", Measure: "Units"}, in)

	in = ParseQuery("most common channel", s)
	assert.Equal(t, "Channel", in.Dim)

	in = ParseQuery("what is the sales?", s)
	assert.Equal(t, "sales", in.AskedHeader)
}

func TestAccentFolding(t *testing.T) {
	tbl := dataset.FromMaps([]string{"Región", "Ventas"}, []map[string]any{
		{"Región": "Norte", "Ventas": 5},
		{"Región": "Sur", "Ventas": 7},
	})
	s := InferGenericSchema(analysis.BuildProfile(tbl, analysis.DefaultOptions()), tbl)
	in := ParseQuery("top region by ventas", s)
	assert.Equal(t, "Región", in.Dim)
	assert.Equal(t, "Ventas", in.Measure)
}

func TestTopKScenarioAndFollowup(t *testing.T) {
	tbl, p := regionSales()
	a, ctx := AnswerFromData("top 1 region by sales", tbl, p, QueryContext{})
	require.NotNil(t, a)
	assert.Equal(t, "Region", a.Intent.Dim)
	assert.Equal(t, "Sales", a.Intent.Measure)
	assert.Equal(t, "Top **Region** by **Sales** is **APAC** with **200**.", a.Text)
	require.Len(t, ctx.Winners, 1)
	assert.Equal(t, analysis.NameValue{Name: "APAC", Value: 200}, ctx.Winners[0])

	// The follow-up reads only the context; an empty table proves no rescan.
	f, next := AnswerFromData("what is it?", &dataset.Table{}, nil, ctx)
	require.NotNil(t, f)
	assert.Equal(t, "**APAC**", f.Text)
	assert.Equal(t, ctx, next)

	f, _ = AnswerFromData("what is the sales?", tbl, p, ctx)
	assert.Equal(t, "**200**", f.Text)
}

func TestContextIsNotShared(t *testing.T) {
	tbl, p := regionSales()
	a, ctx := AnswerFromData("top 1 region by sales", tbl, p, QueryContext{})
	a.Results[0].Name = "mutated"
	assert.Equal(t, "APAC", ctx.Winners[0].Name)
}

func TestAnswerIntents(t *testing.T) {
	tbl, p := regionSales()
	cases := map[string]string{
		"top 2 region by sales":  "Top 2 **Region** by **Sales** → 1) **APAC** (200) · 2) **EMEA** (150)",
		"total sales":            "Total **Sales** is **350**.",
		"total sales by region":  "Total **Sales** by **Region** → **APAC**: 200 · **EMEA**: 150",
		"average sales":          "Average **Sales** is **116.67**.",
		"avg sales by region":    "Average **Sales** by **Region** → **APAC**: 200.00 · **EMEA**: 75.00",
		"counts by region":       "Counts by **Region** → **EMEA**: 2 · **APAC**: 1",
		"most common region":     "Most common **Region** is **EMEA** with **2** records.",
		"which one?":             CannotAnswer,
	}
	for q, want := range cases {
		a, _ := AnswerFromData(q, tbl, p, QueryContext{})
		require.NotNil(t, a, q)
		assert.Equal(t, want, a.Text, q)
	}
}

func TestMostCommonSetsContext(t *testing.T) {
	tbl, p := regionSales()
	_, ctx := AnswerFromData("most common region", tbl, p, QueryContext{})
	assert.Equal(t, IntentTop, ctx.Type)
	assert.Equal(t, "count", ctx.Measure)
	a, _ := AnswerFromData("what is the count?", tbl, p, ctx)
	assert.Equal(t, "**2**", a.Text)
	a, _ = AnswerFromData("which one", tbl, p, ctx)
	assert.Equal(t, "**EMEA**", a.Text)
}

func TestUnresolvedReturnsNil(t *testing.T) {
	tbl, p := regionSales()
	prev := QueryContext{Type: IntentTop, Dim: "Region", Measure: "Sales", Winners: []analysis.NameValue{{Name: "APAC", Value: 200}}}

	a, ctx := AnswerFromData("tell me a joke", tbl, p, prev)
	assert.Nil(t, a)
	assert.Equal(t, prev, ctx)

	a, ctx = AnswerFromData("total sales", &dataset.Table{Columns: []string{"Region", "Sales"}}, p, prev)
	assert.Nil(t, a)
	assert.Equal(t, prev, ctx)

	textOnly := dataset.FromMaps([]string{"Name"}, []map[string]any{{"Name": "a"}, {"Name": "b"}})
	a, ctx = AnswerFromData("top name", textOnly, analysis.BuildProfile(textOnly, analysis.DefaultOptions()), prev)
	assert.Nil(t, a, "no measure to rank by")
	assert.Equal(t, prev, ctx)
}
