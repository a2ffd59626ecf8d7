// Package store persists fetched profiles between runs and keeps a log
// of pipeline executions. Scraping is slow and rate-limited, so cached
// profiles let an interrupted run resume without refetching.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

// Store wraps the SQLite database holding the profile cache and the
// run log.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// DefaultTTL is how long a cached profile stays fresh. Citation metrics
// move slowly; a week-old profile is good enough for ranking.
const DefaultTTL = 7 * 24 * time.Hour

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode. A non-positive ttl falls back to DefaultTTL.
func NewSQLite(dsn string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	researchers INTEGER NOT NULL DEFAULT 0,
	detail      TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS profiles (
	source     TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	record     TEXT NOT NULL,
	fetched_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL,
	PRIMARY KEY (source, source_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_profiles_expires_at ON profiles(expires_at);
`

// Migrate creates the schema. Safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetProfile returns the cached record for the identifier, or nil when
// the cache has no fresh entry. Expired entries are treated as absent.
func (s *Store) GetProfile(ctx context.Context, source model.Source, id string) (*model.RawRecord, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM profiles WHERE source = ? AND source_id = ? AND expires_at > ?`,
		string(source), id, s.now().UTC(),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s:%s", source, id)
	}

	var rec model.RawRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, eris.Wrapf(err, "sqlite: decode profile %s:%s", source, id)
	}
	return &rec, nil
}

// PutProfile stores a record, replacing any prior entry for the same
// identifier.
func (s *Store) PutProfile(ctx context.Context, rec model.RawRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: encode profile")
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (source, source_id, record, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (source, source_id) DO UPDATE SET
		   record = excluded.record,
		   fetched_at = excluded.fetched_at,
		   expires_at = excluded.expires_at`,
		string(rec.Source), rec.SourceID, string(raw), now, now.Add(s.ttl),
	)
	return eris.Wrapf(err, "sqlite: put profile %s", rec.Key())
}

// PurgeExpired deletes stale cache entries and reports how many were
// removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge rows affected")
	}
	return n, nil
}

// Run is one row of the run log.
type Run struct {
	ID          string
	Kind        string
	Status      string
	Researchers int
	Detail      string
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// StartRun records the beginning of a pipeline execution and returns
// its ID.
func (s *Store) StartRun(ctx context.Context, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, status, started_at) VALUES (?, ?, 'running', ?)`,
		id, kind, s.now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: start run %s", kind)
	}
	return id, nil
}

// FinishRun closes a run-log entry with its outcome.
func (s *Store) FinishRun(ctx context.Context, id, status string, researchers int, detail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, researchers = ?, detail = ?, finished_at = ? WHERE id = ?`,
		status, researchers, detail, s.now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: finish run rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", id)
	}
	return nil
}

// LastRuns returns the most recent run-log entries, newest first.
func (s *Store) LastRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, status, researchers, COALESCE(detail, ''), started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Researchers, &r.Detail, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}
