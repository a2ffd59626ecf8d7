package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/config"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/scholar"
)

// ScrapeFetcher adapts the direct Scholar HTML scrape backend.
type ScrapeFetcher struct {
	client scholar.Client
	now    func() time.Time
}

// NewScrapeFetcher builds the scrape backend from config.
func NewScrapeFetcher(cfg config.ScholarConfig) *ScrapeFetcher {
	opts := []scholar.Option{
		scholar.WithDelayRange(
			time.Duration(cfg.DelayMinSecs)*time.Second,
			time.Duration(cfg.DelayMaxSecs)*time.Second,
		),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, scholar.WithBaseURL(cfg.BaseURL))
	}
	client := scholar.NewClient(opts...)
	return &ScrapeFetcher{client: client, now: time.Now}
}

// NewScrapeFetcherWithClient wires an existing client (tests).
func NewScrapeFetcherWithClient(client scholar.Client) *ScrapeFetcher {
	return &ScrapeFetcher{client: client, now: time.Now}
}

// Source implements ProfileFetcher.
func (f *ScrapeFetcher) Source() model.Source { return model.SourceScholar }

// FetchProfile implements ProfileFetcher.
func (f *ScrapeFetcher) FetchProfile(ctx context.Context, id string) (*model.RawRecord, error) {
	p, err := f.client.FetchProfile(ctx, id)
	if err != nil {
		switch {
		case eris.Is(err, scholar.ErrBlocked):
			return nil, ErrBlocked
		case eris.Is(err, scholar.ErrNoData):
			return nil, ErrNoData
		default:
			return nil, err
		}
	}

	return &model.RawRecord{
		Source:      model.SourceScholar,
		SourceID:    p.ScholarID,
		ScholarID:   p.ScholarID,
		Name:        p.Name,
		Affiliation: p.Affiliation,
		EmailDomain: p.EmailDomain,
		Interests:   p.Interests,
		Metrics: model.Metrics{
			HIndex:      p.HIndex,
			HIndex5y:    p.HIndex5y,
			I10Index:    p.I10Index,
			I10Index5y:  p.I10Index5y,
			Citations:   p.Citations,
			Citations5y: p.Citations5y,
		},
		RetrievedAt: f.now(),
	}, nil
}
