package source

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/config"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/serpapi"
)

// SerpAPIFetcher adapts the paid search-proxy backend.
type SerpAPIFetcher struct {
	client serpapi.Client
	now    func() time.Time
}

// NewSerpAPIFetcher builds the SerpAPI backend from config. The key
// falls back to the SERPAPI_KEY environment variable; a missing key is
// a configuration error raised here, before any network call.
func NewSerpAPIFetcher(cfg config.SerpAPIConfig) (*SerpAPIFetcher, error) {
	key := cfg.Key
	if key == "" {
		key = os.Getenv("SERPAPI_KEY")
	}

	opts := []serpapi.Option{
		serpapi.WithDelay(time.Duration(cfg.DelayMs) * time.Millisecond),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, serpapi.WithBaseURL(cfg.BaseURL))
	}

	client, err := serpapi.NewClient(key, opts...)
	if err != nil {
		return nil, err
	}
	return &SerpAPIFetcher{client: client, now: time.Now}, nil
}

// NewSerpAPIFetcherWithClient wires an existing client (tests).
func NewSerpAPIFetcherWithClient(client serpapi.Client) *SerpAPIFetcher {
	return &SerpAPIFetcher{client: client, now: time.Now}
}

// Source implements ProfileFetcher.
func (f *SerpAPIFetcher) Source() model.Source { return model.SourceSerpAPI }

// FetchProfile implements ProfileFetcher.
func (f *SerpAPIFetcher) FetchProfile(ctx context.Context, id string) (*model.RawRecord, error) {
	result, err := f.client.AuthorProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.Author.Name == "" {
		return nil, ErrNoData
	}

	interests := make([]string, 0, len(result.Author.Interests))
	for _, i := range result.Author.Interests {
		if i.Title != "" {
			interests = append(interests, i.Title)
		}
	}

	citations, citations5y := result.Metric("citations")
	hIndex, hIndex5y := result.Metric("h_index")
	i10, i105y := result.Metric("i10_index")

	return &model.RawRecord{
		Source:      model.SourceSerpAPI,
		SourceID:    id,
		ScholarID:   id,
		Name:        result.Author.Name,
		Affiliation: result.Author.Affiliations,
		EmailDomain: strings.TrimSpace(strings.TrimPrefix(result.Author.Email, "Verified email at ")),
		Interests:   interests,
		Metrics: model.Metrics{
			HIndex:      hIndex,
			HIndex5y:    hIndex5y,
			I10Index:    i10,
			I10Index5y:  i105y,
			Citations:   citations,
			Citations5y: citations5y,
		},
		RetrievedAt: f.now(),
	}, nil
}
