// Package source adapts the concrete backends (OpenAlex, Scholar
// scrape, SerpAPI) into one capability: fetch a profile by identifier
// and return a normalized RawRecord or a failure reason. The concrete
// variant is selected by configuration, not by branching at call sites.
package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/config"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// ErrNoData indicates the backend had no usable record for the
// identifier. The identifier is skipped, not fatal to the batch.
var ErrNoData = eris.New("source: no data for identifier")

// ErrBlocked indicates anti-bot detection. The current call is
// abandoned and must not be retried within the same run.
var ErrBlocked = eris.New("source: blocked by upstream")

// ProfileFetcher fetches one researcher profile per call, given an
// opaque external identifier.
type ProfileFetcher interface {
	// FetchProfile returns a normalized record, ErrNoData when the
	// backend has nothing for the identifier, or ErrBlocked on anti-bot
	// detection.
	FetchProfile(ctx context.Context, id string) (*model.RawRecord, error)

	// Source reports which backend this fetcher wraps.
	Source() model.Source
}

// Cache optionally short-circuits fetches with previously stored
// records. A nil Cache disables caching.
type Cache interface {
	GetProfile(ctx context.Context, source model.Source, id string) (*model.RawRecord, error)
	PutProfile(ctx context.Context, rec model.RawRecord) error
}

// New selects and constructs the profile backend named by cfg.Scholar.Backend.
func New(cfg *config.Config) (ProfileFetcher, error) {
	switch cfg.Scholar.Backend {
	case "scrape":
		return NewScrapeFetcher(cfg.Scholar), nil
	case "serpapi":
		return NewSerpAPIFetcher(cfg.SerpAPI)
	default:
		return nil, eris.Errorf("source: unknown backend %q", cfg.Scholar.Backend)
	}
}

// Collect fetches every identifier through the fetcher, returning the
// records obtained. Failures follow the pipeline error taxonomy: a
// blocked or empty call is logged, counted and skipped; the batch is
// never aborted by a single identifier. When a cache is supplied,
// cached records are used and fresh fetches are stored back.
func Collect(ctx context.Context, fetcher ProfileFetcher, ids []string, cache Cache, log *zap.Logger) ([]model.RawRecord, error) {
	if log == nil {
		log = zap.L()
	}

	records := make([]model.RawRecord, 0, len(ids))
	var skipped, blocked, cached int

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return records, eris.Wrap(err, "source: collect cancelled")
		}

		if cache != nil {
			if rec, err := cache.GetProfile(ctx, fetcher.Source(), id); err == nil && rec != nil {
				records = append(records, *rec)
				cached++
				continue
			}
		}

		rec, err := fetcher.FetchProfile(ctx, id)
		switch {
		case err == nil:
			records = append(records, *rec)
			if cache != nil {
				if putErr := cache.PutProfile(ctx, *rec); putErr != nil {
					log.Warn("source: cache store failed", zap.String("id", id), zap.Error(putErr))
				}
			}
		case eris.Is(err, ErrBlocked):
			blocked++
			log.Warn("source: call blocked, skipping identifier",
				zap.String("id", id),
				zap.String("backend", string(fetcher.Source())),
			)
		case eris.Is(err, ErrNoData):
			skipped++
			log.Debug("source: no data", zap.String("id", id))
		default:
			skipped++
			log.Warn("source: fetch failed, skipping identifier",
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}

	log.Info("source: collection complete",
		zap.String("backend", string(fetcher.Source())),
		zap.Int("requested", len(ids)),
		zap.Int("fetched", len(records)),
		zap.Int("from_cache", cached),
		zap.Int("skipped", skipped),
		zap.Int("blocked", blocked),
	)

	return records, nil
}
