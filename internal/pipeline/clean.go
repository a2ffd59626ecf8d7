package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
)

// CleanOptions control the exclusion chain beyond the registry's
// curated lists.
type CleanOptions struct {
	// Country keeps only researchers whose resolved country matches.
	// Empty disables the country stage.
	Country string
	// MinHIndex drops researchers below the threshold. Zero disables
	// the stage.
	MinHIndex int
}

// Clean applies the exclusion stages in a fixed order: excluded names,
// excluded affiliations, excluded fields, country, minimum h-index.
// Each stage only removes entries, so the output is always a subset of
// the input, and every stage logs its survivor count.
func Clean(researchers []model.Researcher, reg *registry.Registry, opts CleanOptions, log *zap.Logger) []model.Researcher {
	if log == nil {
		log = zap.L()
	}

	out := researchers
	out = cleanStage(out, "names", log, func(r model.Researcher) bool {
		return !reg.ExcludedName(r.Name)
	})
	out = cleanStage(out, "affiliations", log, func(r model.Researcher) bool {
		return !reg.ExcludedAffiliation(r.Affiliation)
	})
	out = cleanStage(out, "fields", log, func(r model.Researcher) bool {
		if r.FieldLabel != "" && reg.ExcludedField(r.FieldLabel) {
			return false
		}
		for _, interest := range r.Interests {
			if reg.ExcludedField(interest) {
				return false
			}
		}
		return true
	})
	if opts.Country != "" {
		want := strings.ToUpper(opts.Country)
		out = cleanStage(out, "country", log, func(r model.Researcher) bool {
			// Unknown country is kept: scraped profiles carry no
			// country and are admitted through the curated registry.
			return r.Country == "" || strings.ToUpper(r.Country) == want
		})
	}
	if opts.MinHIndex > 0 {
		out = cleanStage(out, "min_h_index", log, func(r model.Researcher) bool {
			return r.Metrics.HIndex >= opts.MinHIndex
		})
	}
	return out
}

func cleanStage(in []model.Researcher, stage string, log *zap.Logger, keep func(model.Researcher) bool) []model.Researcher {
	out := make([]model.Researcher, 0, len(in))
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	log.Info("clean: stage applied",
		zap.String("stage", stage),
		zap.Int("before", len(in)),
		zap.Int("after", len(out)),
	)
	return out
}
