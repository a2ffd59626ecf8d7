package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func TestConsistencyBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    model.Researcher
		want int
	}{
		{"empty profile", model.Researcher{}, 0},
		{
			"affiliation only",
			model.Researcher{Affiliation: "Universidad de Chile"},
			20,
		},
		{
			"short affiliation does not count",
			model.Researcher{Affiliation: "UC"},
			0,
		},
		{
			"coherent citations",
			model.Researcher{Metrics: model.Metrics{HIndex: 10, Citations: 50}},
			20,
		},
		{
			"incoherent citations",
			model.Researcher{Metrics: model.Metrics{HIndex: 10, Citations: 49}},
			0,
		},
		{
			"full profile",
			model.Researcher{
				Affiliation: "Universidad de Chile",
				Interests:   []string{"sociology"},
				EmailDomain: "uchile.cl",
				Metrics:     model.Metrics{HIndex: 10, HIndex5y: 6, Citations: 400},
			},
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, consistency(tt.r))
		})
	}
}

func TestScoreConsistencyMultipleOf20(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Affiliation: "Universidad de Chile", Metrics: model.Metrics{HIndex: 5, Citations: 100}},
		{EmailDomain: "puc.cl", Interests: []string{"economics"}},
		{},
	}

	out := Score(in, zap.NewNop())
	for _, r := range out {
		assert.Zero(t, r.Consistency%20)
		assert.GreaterOrEqual(t, r.Consistency, 0)
		assert.LessOrEqual(t, r.Consistency, 100)
	}
}

func TestImpactAllEqualIs50(t *testing.T) {
	t.Parallel()

	m := model.Metrics{HIndex: 10, HIndex5y: 6, I10Index: 12, Citations: 300}
	in := []model.Researcher{{Metrics: m}, {Metrics: m}, {Metrics: m}}

	out := Score(in, zap.NewNop())
	for _, r := range out {
		assert.Equal(t, 50.0, r.Impact)
	}
}

func TestImpactExtremes(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Metrics: model.Metrics{HIndex: 0, HIndex5y: 0, I10Index: 0, Citations: 0}},
		{Metrics: model.Metrics{HIndex: 20, HIndex5y: 10, I10Index: 30, Citations: 1000}},
	}

	out := Score(in, zap.NewNop())
	assert.Equal(t, 0.0, out[0].Impact)
	assert.Equal(t, 100.0, out[1].Impact)
}

func TestImpactWithinRangeAndRounded(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Metrics: model.Metrics{HIndex: 3, Citations: 45, I10Index: 2, HIndex5y: 1}},
		{Metrics: model.Metrics{HIndex: 17, Citations: 812, I10Index: 21, HIndex5y: 9}},
		{Metrics: model.Metrics{HIndex: 9, Citations: 333, I10Index: 7, HIndex5y: 4}},
	}

	out := Score(in, zap.NewNop())
	for _, r := range out {
		assert.GreaterOrEqual(t, r.Impact, 0.0)
		assert.LessOrEqual(t, r.Impact, 100.0)
		// Two-decimal rounding: scaling by 100 yields an integer.
		assert.InDelta(t, math.Round(r.Impact*100), r.Impact*100, 1e-9)
	}
}

func TestScoreEmptyBatch(t *testing.T) {
	t.Parallel()

	out := Score(nil, zap.NewNop())
	assert.Empty(t, out)
}
