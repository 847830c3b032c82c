package analysis

import (
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickKPIsTrimsOutliers(t *testing.T) {
	rows := rowsOf("v", 1, 2, 3, 4, 5, 6, 7, 8, 9, 1000)
	kpis := QuickKPIs(rows, []string{"v"}, 0)
	require.Len(t, kpis, 1)
	k := kpis[0]
	assert.Equal(t, 9, k.N)
	assert.InDelta(t, 45.0, k.Sum, 1e-9)
	assert.InDelta(t, 5.0, k.Avg, 1e-9)
	assert.Equal(t, 1.0, k.Min)
	assert.Equal(t, 9.0, k.Max)
	assert.InDelta(t, 0.1, k.OutlierRatio, 1e-12)
}

func TestQuickKPIsKeepsAllWhenTrimmingTooMuch(t *testing.T) {
	// Both quartiles are 50, so fencing would keep only 60% of the values.
	rows := rowsOf("v", 1, 2, 50, 50, 50, 50, 50, 50, 99, 100)
	k := QuickKPIs(rows, []string{"v"}, 0)[0]
	assert.Equal(t, 10, k.N)
	assert.Equal(t, 0.0, k.OutlierRatio)
	assert.InDelta(t, 502.0, k.Sum, 1e-9)
}

func TestQuickKPIsOrderingAndLimits(t *testing.T) {
	rows := []dataset.Row{}
	for i := 1; i <= 4; i++ {
		rows = append(rows, dataset.Row{
			"small": dataset.Num(float64(i)),
			"big":   dataset.Num(float64(i * 100)),
			"few":   dataset.Empty(),
		})
	}
	rows[0]["few"] = dataset.Num(1)
	kpis := QuickKPIs(rows, []string{"small", "big", "few"}, 0)
	require.Len(t, kpis, 2, "columns with fewer than 3 values are skipped")
	assert.Equal(t, "big", kpis[0].Name)
	assert.Equal(t, "small", kpis[1].Name)

	assert.Len(t, QuickKPIs(rows, []string{"small", "big"}, 1), 1)
	for _, k := range kpis {
		assert.True(t, k.OutlierRatio >= 0 && k.OutlierRatio <= 1)
		assert.LessOrEqual(t, k.N, 4)
	}
}

func TestCategoryKPIs(t *testing.T) {
	rows := []dataset.Row{
		{"c": dataset.Str("a"), "v": dataset.Num(1)},
		{"c": dataset.Str("a"), "v": dataset.Num(5)},
		{"c": dataset.Str("b"), "v": dataset.Num(10)},
		{"c": dataset.Empty(), "v": dataset.Num(2)},
		{"c": dataset.Str("b"), "v": dataset.Str("x")},
	}
	got := CategoryKPIs(rows, "c", "v")
	assert.Equal(t, []CategoryKPI{
		{Category: "b", Sum: 10, Avg: 10, Count: 1, Min: 10, Max: 10},
		{Category: "a", Sum: 6, Avg: 3, Count: 2, Min: 1, Max: 5},
		{Category: UnknownCategory, Sum: 2, Avg: 2, Count: 1, Min: 2, Max: 2},
	}, got)
	assert.Empty(t, CategoryKPIs(rows, "", "v"))
}

func TestTopBottomSegments(t *testing.T) {
	assert.Nil(t, TopBottomSegments(nil))

	var kpis []CategoryKPI
	for i, name := range []string{"g", "f", "e", "d", "c", "b", "a"} {
		sum := float64(70 - 10*i)
		kpis = append(kpis, CategoryKPI{Category: name, Sum: sum, Count: i + 1, Avg: sum / float64(i+1)})
	}
	seg := TopBottomSegments(kpis)
	require.NotNil(t, seg)
	assert.Len(t, seg.TopSum, 5)
	assert.Equal(t, "g", seg.TopSum[0].Category)
	assert.Equal(t, "a", seg.BottomSum[0].Category, "bottom lists lowest first")
	assert.Equal(t, "e", seg.BottomSum[4].Category)
	assert.Equal(t, "g", seg.TopAvg[0].Category)
	assert.Equal(t, "a", seg.BottomAvg[0].Category)
}

func TestQuickKPIsSkipsOverflowingSums(t *testing.T) {
	rows := []dataset.Row{}
	for i := 0; i < 12; i++ {
		rows = append(rows, dataset.Row{"big": dataset.Num(1e308), "units": dataset.Num(float64(i + 1))})
	}
	kpis := QuickKPIs(rows, []string{"big", "units"}, 0)
	require.Len(t, kpis, 1)
	assert.Equal(t, "units", kpis[0].Name)
}

func TestCategoryKPIsDropsOverflowingGroups(t *testing.T) {
	rows := []dataset.Row{
		{"cat": dataset.Str("a"), "v": dataset.Num(1e308)},
		{"cat": dataset.Str("a"), "v": dataset.Num(1e308)},
		{"cat": dataset.Str("b"), "v": dataset.Num(3)},
	}
	kpis := CategoryKPIs(rows, "cat", "v")
	require.Len(t, kpis, 1)
	assert.Equal(t, "b", kpis[0].Category)
}
