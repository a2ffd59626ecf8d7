package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/openalex"
)

// maxAuthorTopics caps how many topics are inspected and carried over
// for each author.
const maxAuthorTopics = 5

// Extractor pulls bulk author listings from the cursor-paginated
// OpenAlex API and normalizes the survivors of the social-science
// check into RawRecords.
type Extractor struct {
	client openalex.Client
	reg    *registry.Registry
	log    *zap.Logger
	now    func() time.Time
}

// NewExtractor creates an Extractor. A nil logger falls back to the
// global one.
func NewExtractor(client openalex.Client, reg *registry.Registry, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.L()
	}
	return &Extractor{client: client, reg: reg, log: log, now: time.Now}
}

// ByCountry lists authors affiliated in the country with at least the
// minimum h-index and keeps those in a social-science domain or field.
// A page abandoned after its retry terminates the listing; records
// already gathered are returned alongside the logged warning.
func (e *Extractor) ByCountry(ctx context.Context, country string, minHIndex int) ([]model.RawRecord, error) {
	filter := openalex.Filter{Country: country, MinHIndex: minHIndex}
	return e.extract(ctx, filter, country)
}

// ByTopics lists authors matching the registry's social-science topic
// IDs within the country.
func (e *Extractor) ByTopics(ctx context.Context, country string) ([]model.RawRecord, error) {
	filter := openalex.Filter{
		Country:  country,
		TopicIDs: e.reg.Extraction.Topics,
		Sort:     "cited_by_count:desc",
	}
	return e.extract(ctx, filter, country)
}

// ByInstitution lists authors whose affiliation name matches the
// substring, keeping only those currently based in the country.
func (e *Extractor) ByInstitution(ctx context.Context, institution, country string) ([]model.RawRecord, error) {
	filter := openalex.Filter{
		InstitutionSearch: institution,
		Sort:              "cited_by_count:desc",
	}
	return e.extract(ctx, filter, country)
}

func (e *Extractor) extract(ctx context.Context, filter openalex.Filter, country string) ([]model.RawRecord, error) {
	var records []model.RawRecord
	var seen, kept int

	err := e.client.ForEachAuthor(ctx, filter, func(author openalex.Author) error {
		seen++
		field, ok := e.socialScience(author)
		if !ok {
			return nil
		}

		rec, ok := e.normalize(author, field, country)
		if !ok {
			return nil
		}

		records = append(records, rec)
		kept++
		return nil
	})
	if err != nil {
		// Partial results are kept; the caller decides whether they
		// suffice for the run.
		e.log.Warn("openalex: extraction ended early",
			zap.Int("seen", seen),
			zap.Int("kept", kept),
			zap.Error(err),
		)
		return records, err
	}

	e.log.Info("openalex: extraction complete",
		zap.Int("seen", seen),
		zap.Int("kept", kept),
	)
	return records, nil
}

// socialScience checks the author's leading topics against the
// registry's domain and field allow-lists, returning the matched field
// label.
func (e *Extractor) socialScience(author openalex.Author) (string, bool) {
	topics := author.Topics
	if len(topics) > maxAuthorTopics {
		topics = topics[:maxAuthorTopics]
	}
	for _, topic := range topics {
		for _, domain := range e.reg.Extraction.Domains {
			if topic.Domain.DisplayName == domain {
				return topic.Field.DisplayName, true
			}
		}
		for _, field := range e.reg.Extraction.Fields {
			if topic.Field.DisplayName == field {
				return field, true
			}
		}
	}
	return "", false
}

// normalize maps an OpenAlex author to the common RawRecord shape.
// Authors without an affiliation in the target country are dropped.
// Country codes compare case-insensitively; the API reports upper case
// while configuration may carry either.
func (e *Extractor) normalize(author openalex.Author, field, country string) (model.RawRecord, bool) {
	var inst openalex.Institution
	found := false
	for _, candidate := range author.Institutions {
		if strings.EqualFold(candidate.CountryCode, country) {
			inst = candidate
			found = true
			break
		}
	}
	if !found {
		return model.RawRecord{}, false
	}

	topics := author.Topics
	if len(topics) > maxAuthorTopics {
		topics = topics[:maxAuthorTopics]
	}
	interests := make([]string, 0, len(topics))
	for _, t := range topics {
		if t.DisplayName != "" {
			interests = append(interests, t.DisplayName)
		}
	}

	id := openalex.ShortID(author.ID)
	return model.RawRecord{
		Source:      model.SourceOpenAlex,
		SourceID:    id,
		OpenAlexID:  id,
		ORCID:       openalex.ShortORCID(author.ORCID),
		Name:        author.DisplayName,
		Affiliation: inst.DisplayName,
		Country:     inst.CountryCode,
		Interests:   interests,
		FieldLabel:  field,
		Metrics: model.Metrics{
			HIndex:    clampNonNegative(author.SummaryStats.HIndex),
			I10Index:  clampNonNegative(author.SummaryStats.I10Index),
			Citations: clampNonNegative(author.CitedByCount),
			Works:     clampNonNegative(author.WorksCount),
		},
		RetrievedAt: e.now(),
	}, true
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
