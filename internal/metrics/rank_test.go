package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copytrade-analyzer/internal/types"
)

func accounts(rois ...float64) []types.AccountMetrics {
	out := make([]types.AccountMetrics, len(rois))
	for i, r := range rois {
		out[i] = types.AccountMetrics{PortID: string(rune('A' + i)), ROI: r}
	}
	return out
}

func ranks(rows []types.AccountMetrics) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Rank
	}
	return out
}

func ids(rows []types.AccountMetrics) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.PortID
	}
	return out
}

func TestRankMethods(t *testing.T) {
	rois := []float64{5, 10, 5, -1, 10, 3}
	tests := []struct {
		method RankMethod
		want   []float64
	}{
		{RankDense, []float64{2, 1, 2, 4, 1, 3}},
		{RankMin, []float64{3, 1, 3, 6, 1, 5}},
		{RankMax, []float64{4, 2, 4, 6, 2, 5}},
		{RankAverage, []float64{3.5, 1.5, 3.5, 6, 1.5, 5}},
		{RankFirst, []float64{3, 1, 4, 6, 2, 5}},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			rows := accounts(rois...)
			Rank(rows, tt.method)
			assert.Equal(t, tt.want, ranks(rows))
		})
	}
}

func TestRankEmpty(t *testing.T) {
	assert.NotPanics(t, func() { Rank(nil, RankDense) })
}

func TestTop(t *testing.T) {
	rows := accounts(5, 10, 5, -1, 10, 3)
	Rank(rows, RankDense)

	top := Top(rows, 3)
	assert.Equal(t, []string{"B", "E", "A"}, ids(top), "ties keep table order")

	for i := 1; i < len(top); i++ {
		assert.LessOrEqual(t, top[i-1].Rank, top[i].Rank)
	}

	assert.Len(t, Top(rows, 100), len(rows))
	assert.Empty(t, Top(rows, 0))
}

func TestTopDoesNotReorderInput(t *testing.T) {
	rows := accounts(1, 2, 3)
	_ = Top(rows, 2)
	assert.Equal(t, []string{"A", "B", "C"}, ids(rows))
}

func TestTopTwentyHigherROIFirst(t *testing.T) {
	rows := accounts(-10, 10)
	Rank(rows, RankDense)

	top := Top(rows, 20)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].PortID)
	assert.Equal(t, 1.0, top[0].Rank)
	assert.Equal(t, 2.0, top[1].Rank)
}

func TestParseRankMethod(t *testing.T) {
	m, err := ParseRankMethod("")
	require.NoError(t, err)
	assert.Equal(t, RankDense, m)

	m, err = ParseRankMethod("average")
	require.NoError(t, err)
	assert.Equal(t, RankAverage, m)

	_, err = ParseRankMethod("ordinal")
	assert.Error(t, err)
}
