// Package model defines the records that flow through the ranking pipeline.
package model

import "time"

// Source identifies the backend a record came from.
type Source string

const (
	SourceOpenAlex Source = "openalex"
	SourceScholar  Source = "scholar"
	SourceSerpAPI  Source = "serpapi"
	SourceSeed     Source = "seed"
)

// Metrics holds the citation metrics of a researcher. All values are
// non-negative; parsers clamp negatives and treat missing fields as zero.
type Metrics struct {
	HIndex      int `json:"h_index"`
	HIndex5y    int `json:"h_index_5y"`
	I10Index    int `json:"i10_index"`
	I10Index5y  int `json:"i10_index_5y"`
	Citations   int `json:"citations"`
	Citations5y int `json:"citations_5y"`
	Works       int `json:"works"`
}

// RawRecord is one researcher as returned by a single source call. It is
// owned by the adapter that produced it and discarded once folded into a
// Researcher by the reconciler.
type RawRecord struct {
	Source      Source    `json:"source"`
	SourceID    string    `json:"source_id"`
	OpenAlexID  string    `json:"openalex_id,omitempty"`
	ScholarID   string    `json:"scholar_id,omitempty"`
	ORCID       string    `json:"orcid,omitempty"`
	Name        string    `json:"name"`
	Affiliation string    `json:"affiliation"`
	Country     string    `json:"country,omitempty"`
	EmailDomain string    `json:"email_domain,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	FieldLabel  string    `json:"field_label,omitempty"`
	Metrics     Metrics   `json:"metrics"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Researcher is the reconciled, de-duplicated representation of one
// real-world researcher. Country, once resolved, is never changed by
// later stages; the classifier sets Discipline and the metrics
// calculator sets Consistency and Impact.
type Researcher struct {
	ID          string    `json:"id"`
	OpenAlexID  string    `json:"openalex_id,omitempty"`
	ScholarID   string    `json:"scholar_id,omitempty"`
	ORCID       string    `json:"orcid,omitempty"`
	Name        string    `json:"name"`
	Affiliation string    `json:"affiliation"`
	Country     string    `json:"country,omitempty"`
	EmailDomain string    `json:"email_domain,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	FieldLabel  string    `json:"field_label,omitempty"`
	Metrics     Metrics   `json:"metrics"`
	Discipline  string    `json:"discipline,omitempty"`
	Consistency int       `json:"consistency"`
	Impact      float64   `json:"impact"`
	Sources     []Source  `json:"sources"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// RankingEntry is a Researcher with its final 1-based position. Entries
// are created once by the sorter and never mutated afterwards.
type RankingEntry struct {
	Rank int `json:"rank"`
	Researcher
}

// Key returns the identity key used for dedup within a single run:
// the source identifier, qualified by source so identifiers of
// different kinds never collide.
func (r RawRecord) Key() string {
	return string(r.Source) + ":" + r.SourceID
}

// HasSource reports whether src contributed to this researcher.
func (r Researcher) HasSource(src Source) bool {
	for _, s := range r.Sources {
		if s == src {
			return true
		}
	}
	return false
}
