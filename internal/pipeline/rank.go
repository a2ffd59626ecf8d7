package pipeline

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// SortKey names the headline metric a ranking is ordered by.
type SortKey string

const (
	SortByHIndex    SortKey = "h_index"
	SortByCitations SortKey = "citations"
	SortByImpact    SortKey = "impact"
	SortByHIndex5y  SortKey = "h_index_5y"
)

// ParseSortKey validates a user-supplied sort key. A typo in a flag or
// config value is rejected here rather than silently ranked by h-index.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortByHIndex, SortByCitations, SortByImpact, SortByHIndex5y:
		return key, nil
	}
	return "", eris.Errorf("rank: unknown sort key %q (want h_index, citations, impact, or h_index_5y)", s)
}

// Rank orders researchers descending by the chosen metric, breaking
// ties by total citations descending, and assigns 1-based positions.
// The sort is stable, so equal entries keep their input order and
// repeated runs over the same input produce identical rankings.
func Rank(researchers []model.Researcher, by SortKey, log *zap.Logger) []model.RankingEntry {
	if log == nil {
		log = zap.L()
	}

	ordered := make([]model.Researcher, len(researchers))
	copy(ordered, researchers)

	key := metricOf(by)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := key(ordered[i]), key(ordered[j])
		if a != b {
			return a > b
		}
		return ordered[i].Metrics.Citations > ordered[j].Metrics.Citations
	})

	entries := make([]model.RankingEntry, len(ordered))
	for i, r := range ordered {
		entries[i] = model.RankingEntry{Rank: i + 1, Researcher: r}
	}

	log.Info("rank: listing built",
		zap.String("sort_by", string(by)),
		zap.Int("entries", len(entries)),
	)
	return entries
}

func metricOf(by SortKey) func(model.Researcher) float64 {
	switch by {
	case SortByCitations:
		return func(r model.Researcher) float64 { return float64(r.Metrics.Citations) }
	case SortByImpact:
		return func(r model.Researcher) float64 { return r.Impact }
	case SortByHIndex5y:
		return func(r model.Researcher) float64 { return float64(r.Metrics.HIndex5y) }
	default:
		return func(r model.Researcher) float64 { return float64(r.Metrics.HIndex) }
	}
}
