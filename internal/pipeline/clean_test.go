package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func TestCleanRemovesDenylistedEntries(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana Soto", Affiliation: "Universidad de Chile", Country: "CL", Metrics: model.Metrics{HIndex: 8}},
		{Name: "Arend Lijphart", Affiliation: "UC San Diego", Metrics: model.Metrics{HIndex: 90}},
		{Name: "Carlos Núñez", Affiliation: "Gobierno de Chile", Country: "CL", Metrics: model.Metrics{HIndex: 6}},
		{Name: "Diego Vidal", Affiliation: "Universidad de Chile", Country: "CL", FieldLabel: "Computer Science", Metrics: model.Metrics{HIndex: 20}},
	}

	out := Clean(in, testRegistry(), CleanOptions{Country: "CL", MinHIndex: 1}, zap.NewNop())
	require.Len(t, out, 1)
	assert.Equal(t, "Ana Soto", out[0].Name)
}

func TestCleanMonotonic(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana Soto", Affiliation: "Universidad de Chile", Country: "CL", Metrics: model.Metrics{HIndex: 8}},
		{Name: "Beatriz Rojas", Affiliation: "PUC", Country: "CL", Metrics: model.Metrics{HIndex: 4}},
	}

	// Every entry surviving a stricter chain also survives a looser one.
	strict := Clean(in, testRegistry(), CleanOptions{Country: "CL", MinHIndex: 5}, zap.NewNop())
	loose := Clean(in, testRegistry(), CleanOptions{Country: "CL", MinHIndex: 1}, zap.NewNop())
	assert.LessOrEqual(t, len(strict), len(loose))
	assert.LessOrEqual(t, len(loose), len(in))
	for _, r := range strict {
		assert.Contains(t, loose, r)
	}
}

func TestCleanExcludedInterest(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana Soto", Affiliation: "Universidad de Chile", Interests: []string{"Computer Science"}, Metrics: model.Metrics{HIndex: 8}},
	}

	out := Clean(in, testRegistry(), CleanOptions{}, zap.NewNop())
	assert.Empty(t, out)
}

func TestCleanKeepsUnknownCountry(t *testing.T) {
	t.Parallel()

	// Scraped profiles carry no country; they pass the country stage.
	in := []model.Researcher{
		{Name: "Ana Soto", Affiliation: "Universidad de Chile", Metrics: model.Metrics{HIndex: 8}},
		{Name: "Eva Braun", Affiliation: "MIT", Country: "US", Metrics: model.Metrics{HIndex: 8}},
	}

	out := Clean(in, testRegistry(), CleanOptions{Country: "CL"}, zap.NewNop())
	require.Len(t, out, 1)
	assert.Equal(t, "Ana Soto", out[0].Name)
}

func TestCleanDisabledStages(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana Soto", Country: "US", Metrics: model.Metrics{HIndex: 0}},
	}

	out := Clean(in, testRegistry(), CleanOptions{}, zap.NewNop())
	assert.Len(t, out, 1)
}
