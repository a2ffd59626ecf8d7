package export

import (
	"sort"

	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// Stats summarizes a finished ranking.
type Stats struct {
	Researchers    int            `json:"researchers"`
	TotalCitations int            `json:"total_citations"`
	MeanHIndex     float64        `json:"mean_h_index"`
	MedianHIndex   float64        `json:"median_h_index"`
	MaxHIndex      int            `json:"max_h_index"`
	ByDiscipline   map[string]int `json:"by_discipline"`
	BySource       map[string]int `json:"by_source"`
}

// Summarize computes run statistics over the final listing.
func Summarize(entries []model.RankingEntry) Stats {
	stats := Stats{
		ByDiscipline: make(map[string]int),
		BySource:     make(map[string]int),
	}
	if len(entries) == 0 {
		return stats
	}

	hs := make([]int, 0, len(entries))
	sum := 0
	for _, e := range entries {
		stats.Researchers++
		stats.TotalCitations += e.Metrics.Citations
		if e.Metrics.HIndex > stats.MaxHIndex {
			stats.MaxHIndex = e.Metrics.HIndex
		}
		hs = append(hs, e.Metrics.HIndex)
		sum += e.Metrics.HIndex
		stats.ByDiscipline[e.Discipline]++
		for _, s := range e.Sources {
			stats.BySource[string(s)]++
		}
	}

	stats.MeanHIndex = float64(sum) / float64(len(hs))
	sort.Ints(hs)
	mid := len(hs) / 2
	if len(hs)%2 == 0 {
		stats.MedianHIndex = float64(hs[mid-1]+hs[mid]) / 2
	} else {
		stats.MedianHIndex = float64(hs[mid])
	}
	return stats
}

// Log emits the summary on the run logger.
func (s Stats) Log(log *zap.Logger) {
	if log == nil {
		log = zap.L()
	}
	log.Info("export: ranking summary",
		zap.Int("researchers", s.Researchers),
		zap.Int("total_citations", s.TotalCitations),
		zap.Float64("mean_h_index", s.MeanHIndex),
		zap.Float64("median_h_index", s.MedianHIndex),
		zap.Int("max_h_index", s.MaxHIndex),
		zap.Any("by_discipline", s.ByDiscipline),
	)
}
