package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func TestRankOrderAndTieBreak(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "B", Metrics: model.Metrics{HIndex: 10, Citations: 300}},
		{Name: "C", Metrics: model.Metrics{HIndex: 8, Citations: 900}},
		{Name: "A", Metrics: model.Metrics{HIndex: 10, Citations: 500}},
	}

	out := Rank(in, SortByHIndex, zap.NewNop())
	require.Len(t, out, 3)

	// Ties on h-index break by citations descending; higher h-index
	// beats higher citations.
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
	assert.Equal(t, "C", out[2].Name)
	for i, entry := range out {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestRankStableOnFullTies(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "first", Metrics: model.Metrics{HIndex: 5, Citations: 100}},
		{Name: "second", Metrics: model.Metrics{HIndex: 5, Citations: 100}},
	}

	out := Rank(in, SortByHIndex, zap.NewNop())
	assert.Equal(t, "first", out[0].Name)
	assert.Equal(t, "second", out[1].Name)
}

func TestRankByCitations(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "low", Metrics: model.Metrics{HIndex: 20, Citations: 50}},
		{Name: "high", Metrics: model.Metrics{HIndex: 3, Citations: 5000}},
	}

	out := Rank(in, SortByCitations, zap.NewNop())
	assert.Equal(t, "high", out[0].Name)
}

func TestRankByImpact(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "low", Impact: 12.5},
		{Name: "high", Impact: 88.1},
	}

	out := Rank(in, SortByImpact, zap.NewNop())
	assert.Equal(t, "high", out[0].Name)
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"h_index", "citations", "impact", "h_index_5y"} {
		key, err := ParseSortKey(valid)
		require.NoError(t, err)
		assert.Equal(t, SortKey(valid), key)
	}

	_, err := ParseSortKey("hindex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hindex")
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "B", Metrics: model.Metrics{HIndex: 1}},
		{Name: "A", Metrics: model.Metrics{HIndex: 9}},
	}

	_ = Rank(in, SortByHIndex, zap.NewNop())
	assert.Equal(t, "B", in[0].Name)
}
