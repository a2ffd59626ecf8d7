package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
)

// Classify assigns a discipline label to every researcher. Rules are
// evaluated in registry order and the first match wins; researchers
// matched by no rule and no field-label mapping get the default label.
// Classification never drops entries.
func Classify(researchers []model.Researcher, reg *registry.Registry, log *zap.Logger) []model.Researcher {
	if log == nil {
		log = zap.L()
	}

	out := make([]model.Researcher, len(researchers))
	counts := make(map[string]int)
	for i, r := range researchers {
		r.Discipline = classifyOne(r, reg)
		counts[r.Discipline]++
		out[i] = r
	}

	fields := make([]zap.Field, 0, len(counts)+1)
	fields = append(fields, zap.Int("researchers", len(out)))
	for label, n := range counts {
		fields = append(fields, zap.Int(label, n))
	}
	log.Info("classify: disciplines assigned", fields...)
	return out
}

func classifyOne(r model.Researcher, reg *registry.Registry) string {
	haystack := strings.ToLower(strings.Join(r.Interests, " "))

	for _, rule := range reg.Disciplines {
		if rule.Field != "" && rule.Field == r.FieldLabel {
			return rule.Label
		}
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				return rule.Label
			}
		}
	}

	if label, ok := reg.FieldLabels[r.FieldLabel]; ok {
		return label
	}
	return reg.DefaultDiscipline
}
