package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func TestPipelineRunEndToEnd(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	records := []model.RawRecord{
		{
			Source: model.SourceOpenAlex, SourceID: "A1", OpenAlexID: "A1",
			Name: "Ana Soto", Affiliation: "Universidad de Chile", Country: "CL",
			Interests: []string{"political science"},
			Metrics:   model.Metrics{HIndex: 12, Citations: 400, I10Index: 15},
			RetrievedAt: now,
		},
		{
			Source: model.SourceScholar, SourceID: "S1", ScholarID: "S1",
			Name: "Ana Soto", EmailDomain: "uchile.cl",
			Metrics:     model.Metrics{HIndex: 11, HIndex5y: 8, Citations: 380},
			RetrievedAt: now.Add(time.Hour),
		},
		{
			Source: model.SourceOpenAlex, SourceID: "A2", OpenAlexID: "A2",
			Name: "Beatriz Rojas", Affiliation: "Pontificia Universidad Católica", Country: "CL",
			Interests: []string{"sociology"},
			Metrics:   model.Metrics{HIndex: 7, Citations: 150, I10Index: 6},
			RetrievedAt: now,
		},
		{
			Source: model.SourceOpenAlex, SourceID: "A3", OpenAlexID: "A3",
			Name: "Carlos Núñez", Affiliation: "Gobierno de Chile", Country: "CL",
			Metrics:     model.Metrics{HIndex: 30, Citations: 2000},
			RetrievedAt: now,
		},
	}

	p := New(testRegistry(), zap.NewNop())
	out := p.Run(records, Options{
		Clean:  CleanOptions{Country: "CL", MinHIndex: 1},
		SortBy: SortByHIndex,
	})

	// The two Ana Soto records merge; the government-affiliated entry
	// is cleaned out despite its metrics.
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "Ana Soto", out[0].Name)
	assert.Equal(t, "Ciencia Política", out[0].Discipline)
	assert.Equal(t, 2, out[1].Rank)
	assert.Equal(t, "Beatriz Rojas", out[1].Name)
	assert.Equal(t, "Sociología", out[1].Discipline)

	for _, entry := range out {
		assert.Zero(t, entry.Consistency%20)
		assert.GreaterOrEqual(t, entry.Impact, 0.0)
		assert.LessOrEqual(t, entry.Impact, 100.0)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	t.Parallel()

	records := []model.RawRecord{
		{Source: model.SourceOpenAlex, SourceID: "A1", OpenAlexID: "A1", Name: "Ana Soto", Affiliation: "Universidad de Chile", Metrics: model.Metrics{HIndex: 9, Citations: 200}},
		{Source: model.SourceOpenAlex, SourceID: "A2", OpenAlexID: "A2", Name: "Beatriz Rojas", Affiliation: "Universidad de Concepción", Metrics: model.Metrics{HIndex: 9, Citations: 100}},
	}

	p := New(testRegistry(), zap.NewNop())
	first := p.Run(records, Options{SortBy: SortByHIndex})
	second := p.Run(records, Options{SortBy: SortByHIndex})

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Rank, second[i].Rank)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Impact, second[i].Impact)
	}
}
