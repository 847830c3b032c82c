package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorr(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Corr(xs, []float64{2, 4, 6, 8, 10}), 1e-12)
	assert.InDelta(t, -1.0, Corr(xs, []float64{5, 4, 3, 2, 1}), 1e-12)

	ys := []float64{2, 1, 4, 3, 7}
	assert.InDelta(t, Corr(xs, ys), Corr(ys, xs), 1e-12)
	r := Corr(xs, ys)
	assert.True(t, r >= -1 && r <= 1)
}

func TestCorrUndefined(t *testing.T) {
	nan := math.NaN()
	assert.True(t, math.IsNaN(Corr([]float64{1, 2}, []float64{1, 2})), "fewer than 3 pairs")
	assert.True(t, math.IsNaN(Corr([]float64{1, 2, 3}, []float64{7, 7, 7})), "zero variance")
	assert.True(t, math.IsNaN(Corr([]float64{1, nan, 3, nan}, []float64{1, 2, nan, 4})), "pairs are complete only")
	assert.InDelta(t, 1.0, Corr([]float64{1, nan, 2, 3, 4}, []float64{2, 9, 4, 6, 8}), 1e-12)
}

func TestPairScans(t *testing.T) {
	tbl := salesTable()
	pair := BestNumericPair(tbl.Rows, []string{"Sales", "Units"})
	require.NotNil(t, pair)
	assert.Equal(t, "Sales", pair.A)
	assert.Equal(t, "Units", pair.B)
	assert.InDelta(t, 1.0, pair.R, 1e-9)

	top := TopCorrelations(tbl.Rows, []string{"Sales", "Units"}, 5)
	require.Len(t, top, 1)

	assert.Nil(t, BestNumericPair(tbl.Rows, []string{"Sales"}))
}

func TestTopCorrelationsOrderAndThreshold(t *testing.T) {
	rows := make([]dataset.Row, 0, 8)
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []float64{2, 4, 6, 8, 10, 12, 14, 16}
	c := []float64{8, 6, 7, 5, 3, 4, 2, 1}
	d := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	for i := range a {
		rows = append(rows, dataset.Row{"a": dataset.Num(a[i]), "b": dataset.Num(b[i]), "c": dataset.Num(c[i]), "d": dataset.Num(d[i])})
	}
	top := TopCorrelations(rows, []string{"a", "b", "c", "d"}, 2)
	require.Len(t, top, 2)
	assert.Equal(t, Pair{A: "a", B: "b", R: top[0].R}, top[0])
	assert.InDelta(t, 1.0, top[0].R, 1e-12)
	assert.True(t, top[1].R < 0, "signed r is kept")
	for _, p := range TopCorrelations(rows, []string{"a", "b", "c", "d"}, 0) {
		assert.Greater(t, math.Abs(p.R), 0.3)
	}
}

func TestRankRelationships(t *testing.T) {
	rows := []dataset.Row{}
	for i := 0; i < 10; i++ {
		r := dataset.Row{"x": dataset.Num(float64(i)), "y": dataset.Num(float64(3 * i)), "z": dataset.Num(float64(i) / 100)}
		if i >= 5 {
			r["z"] = dataset.Empty()
		}
		rows = append(rows, r)
	}
	ranked := RankRelationships(rows, []string{"x", "y", "z"})
	require.NotEmpty(t, ranked)
	assert.Equal(t, "x", ranked[0].A)
	assert.Equal(t, "y", ranked[0].B)
	assert.InDelta(t, 1.0, ranked[0].Coverage, 1e-12)
	for _, r := range ranked {
		if r.B == "z" {
			assert.InDelta(t, 0.5, r.Coverage, 1e-12)
			assert.Less(t, r.Score, ranked[0].Score)
		}
	}
	assert.LessOrEqual(t, len(ranked), 8)
}

func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, Variance([]float64{1, 2}))
	assert.InDelta(t, 2.0/3.0, Variance([]float64{1, 2, 3, math.NaN()}), 1e-12)
}
