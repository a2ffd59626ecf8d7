package pipeline

import (
	"math"

	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// Impact score weights per metric. They sum to 1.0 so the weighted sum
// stays within [0, 100].
const (
	weightHIndex    = 0.4
	weightCitations = 0.3
	weightHIndex5y  = 0.2
	weightI10Index  = 0.1
)

// consistencyStep is the value of each satisfied profile-completeness
// signal. Five independent signals put the score in {0, 20, ..., 100}.
const consistencyStep = 20

// Score fills in Consistency and Impact for every researcher.
// Consistency is per-profile; Impact normalizes each metric across the
// whole batch, so adding or removing a researcher changes everyone's
// Impact.
func Score(researchers []model.Researcher, log *zap.Logger) []model.Researcher {
	if log == nil {
		log = zap.L()
	}

	out := make([]model.Researcher, len(researchers))
	copy(out, researchers)

	for i := range out {
		out[i].Consistency = consistency(out[i])
	}
	applyImpact(out)

	log.Info("score: metrics computed", zap.Int("researchers", len(out)))
	return out
}

// consistency counts the profile-completeness signals, 20 points each:
// a substantive affiliation, declared interests, a verified email
// domain, citations coherent with the h-index, and recent activity.
func consistency(r model.Researcher) int {
	score := 0
	if len(r.Affiliation) > 5 {
		score += consistencyStep
	}
	if len(r.Interests) > 0 {
		score += consistencyStep
	}
	if len(r.EmailDomain) > 3 {
		score += consistencyStep
	}
	// An h-index of h needs at least h papers with h citations each;
	// far fewer total citations than h² flags an implausible profile.
	h := r.Metrics.HIndex
	if h > 0 && r.Metrics.Citations > 0 && float64(r.Metrics.Citations) >= 0.5*float64(h)*float64(h) {
		score += consistencyStep
	}
	if r.Metrics.HIndex5y > 0 {
		score += consistencyStep
	}
	return score
}

// applyImpact computes each researcher's impact score in place: every
// metric is min-max normalized to [0, 100] over the batch, then the
// normalized values are combined with fixed weights. When a metric is
// identical across the batch its normalized value is 50 for everyone.
func applyImpact(researchers []model.Researcher) {
	if len(researchers) == 0 {
		return
	}

	hNorm := normalize(researchers, func(m model.Metrics) int { return m.HIndex })
	cNorm := normalize(researchers, func(m model.Metrics) int { return m.Citations })
	h5Norm := normalize(researchers, func(m model.Metrics) int { return m.HIndex5y })
	i10Norm := normalize(researchers, func(m model.Metrics) int { return m.I10Index })

	for i := range researchers {
		impact := weightHIndex*hNorm[i] +
			weightCitations*cNorm[i] +
			weightHIndex5y*h5Norm[i] +
			weightI10Index*i10Norm[i]
		researchers[i].Impact = round2(impact)
	}
}

func normalize(researchers []model.Researcher, metric func(model.Metrics) int) []float64 {
	lo, hi := metric(researchers[0].Metrics), metric(researchers[0].Metrics)
	for _, r := range researchers[1:] {
		v := metric(r.Metrics)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]float64, len(researchers))
	if lo == hi {
		for i := range out {
			out[i] = 50
		}
		return out
	}
	span := float64(hi - lo)
	for i, r := range researchers {
		out[i] = float64(metric(r.Metrics)-lo) / span * 100
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
