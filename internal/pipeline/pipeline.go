package pipeline

import (
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
)

// Options configure a full pipeline run.
type Options struct {
	Clean  CleanOptions
	SortBy SortKey
}

// Pipeline runs the full sequence over raw records. The registry is
// consulted read-only throughout.
type Pipeline struct {
	reg *registry.Registry
	log *zap.Logger
}

// New creates a Pipeline. A nil logger falls back to the global one.
func New(reg *registry.Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.L()
	}
	return &Pipeline{reg: reg, log: log}
}

// Run executes reconcile, clean, classify, score, and rank in order
// and returns the final listing.
func (p *Pipeline) Run(records []model.RawRecord, opts Options) []model.RankingEntry {
	researchers := Reconcile(records, p.reg, p.log)
	researchers = Clean(researchers, p.reg, opts.Clean, p.log)
	researchers = Classify(researchers, p.reg, p.log)
	researchers = Score(researchers, p.log)
	return Rank(researchers, opts.SortBy, p.log)
}
