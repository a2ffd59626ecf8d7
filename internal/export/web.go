package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
)

// Topic shortening limits for the web payload. The site renders topics
// as small chips, so long upstream labels are truncated.
const (
	maxWebTopics   = 3
	maxTopicLength = 40
)

// webEntry is the compact per-researcher object the site consumes.
// Affiliations and disciplines are abbreviated to keep the payload and
// the rendered table small.
type webEntry struct {
	ID          string   `json:"id"`
	OpenAlexID  string   `json:"openalex_id,omitempty"`
	ORCID       string   `json:"orcid,omitempty"`
	ScholarID   string   `json:"scholar_id,omitempty"`
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation"`
	D1          string   `json:"d1"`
	Topics      []string `json:"topics"`
	HIndex      int      `json:"hindex"`
	Citations   int      `json:"citations"`
	Works       int      `json:"works"`
}

// WriteWebJSON writes the ranking as the JSON array served to the
// public site.
func WriteWebJSON(path string, entries []model.RankingEntry, reg *registry.Registry) error {
	out := make([]webEntry, len(entries))
	for i, e := range entries {
		out[i] = webEntry{
			ID:          e.ID,
			OpenAlexID:  e.OpenAlexID,
			ORCID:       e.ORCID,
			ScholarID:   e.ScholarID,
			Name:        e.Name,
			Affiliation: reg.Abbreviate(e.Affiliation),
			D1:          reg.AbbreviateDiscipline(e.Discipline),
			Topics:      shortenTopics(e.Interests),
			HIndex:      e.Metrics.HIndex,
			Citations:   e.Metrics.Citations,
			Works:       e.Metrics.Works,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal web json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// shortenTopics keeps the first few topics, truncating each to the chip
// width. Always returns a non-nil slice so the JSON field is [] rather
// than null.
func shortenTopics(topics []string) []string {
	out := make([]string, 0, maxWebTopics)
	for _, topic := range topics {
		if len(out) == maxWebTopics {
			break
		}
		if runes := []rune(topic); len(runes) > maxTopicLength {
			topic = string(runes[:maxTopicLength])
		}
		if topic == "" {
			continue
		}
		out = append(out, topic)
	}
	return out
}
