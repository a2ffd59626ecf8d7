// Package export renders a finished ranking into the delivery formats:
// CSV and XLSX for analysts, a compact JSON for the public site, and a
// standalone HTML table for quick inspection.
package export

import (
	"strings"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// Row is the flattened shape shared by the CSV and XLSX writers.
type Row struct {
	Rank        int     `csv:"rank"`
	Name        string  `csv:"name"`
	Affiliation string  `csv:"affiliation"`
	Discipline  string  `csv:"discipline"`
	HIndex      int     `csv:"h_index"`
	HIndex5y    int     `csv:"h_index_5y"`
	I10Index    int     `csv:"i10_index"`
	Citations   int     `csv:"citations"`
	Citations5y int     `csv:"citations_5y"`
	Works       int     `csv:"works"`
	Consistency int     `csv:"consistency"`
	Impact      float64 `csv:"impact"`
	Interests   string  `csv:"interests"`
	OpenAlexID  string  `csv:"openalex_id"`
	ScholarID   string  `csv:"scholar_id"`
	ORCID       string  `csv:"orcid"`
	Sources     string  `csv:"sources"`
}

func toRows(entries []model.RankingEntry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		sources := make([]string, len(e.Sources))
		for j, s := range e.Sources {
			sources[j] = string(s)
		}
		rows[i] = Row{
			Rank:        e.Rank,
			Name:        e.Name,
			Affiliation: e.Affiliation,
			Discipline:  e.Discipline,
			HIndex:      e.Metrics.HIndex,
			HIndex5y:    e.Metrics.HIndex5y,
			I10Index:    e.Metrics.I10Index,
			Citations:   e.Metrics.Citations,
			Citations5y: e.Metrics.Citations5y,
			Works:       e.Metrics.Works,
			Consistency: e.Consistency,
			Impact:      e.Impact,
			Interests:   strings.Join(e.Interests, "; "),
			OpenAlexID:  e.OpenAlexID,
			ScholarID:   e.ScholarID,
			ORCID:       e.ORCID,
			Sources:     strings.Join(sources, ","),
		}
	}
	return rows
}
