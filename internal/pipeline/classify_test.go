package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

func TestClassifyFirstRuleWins(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		// Matches both rules; ordering keeps Ciencia Política.
		{Name: "Ana", Interests: []string{"Political Science", "Sociology"}},
	}

	out := Classify(in, testRegistry(), zap.NewNop())
	assert.Equal(t, "Ciencia Política", out[0].Discipline)
}

func TestClassifyFieldMatch(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana", FieldLabel: "Economics, Econometrics and Finance"},
	}

	out := Classify(in, testRegistry(), zap.NewNop())
	assert.Equal(t, "Economía", out[0].Discipline)
}

func TestClassifyFieldLabelFallback(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana", FieldLabel: "Psychology"},
	}

	out := Classify(in, testRegistry(), zap.NewNop())
	assert.Equal(t, "Psicología", out[0].Discipline)
}

func TestClassifyDefault(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana", Interests: []string{"astrophysics"}},
		{Name: "Bea"},
	}

	out := Classify(in, testRegistry(), zap.NewNop())
	assert.Equal(t, "Ciencias Sociales", out[0].Discipline)
	assert.Equal(t, "Ciencias Sociales", out[1].Discipline)
	assert.Len(t, out, len(in))
}

func TestClassifyCaseInsensitiveKeywords(t *testing.T) {
	t.Parallel()

	in := []model.Researcher{
		{Name: "Ana", Interests: []string{"SOCIOLOGY of education"}},
	}

	out := Classify(in, testRegistry(), zap.NewNop())
	assert.Equal(t, "Sociología", out[0].Discipline)
}
