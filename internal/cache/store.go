// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists check verdicts in a SQLite database so targets
// that were recently verified are not probed again on every run.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/linkvet/pkg/types"
)

// SchemaVersion is the verdict schema this build reads and writes. The
// version is stamped into the database via PRAGMA user_version; opening
// a cache stamped with a newer version fails with SchemaError.
const SchemaVersion = 1

// MemoryPath opens a throwaway in-memory cache. Used when caching is
// disabled and by tests.
const MemoryPath = ":memory:"

// SchemaError reports a cache file written by a newer schema than this
// build understands. It is fatal before any checking starts: silently
// rewriting an unknown layout could destroy the newer tool's data.
type SchemaError struct {
	Found     int
	Supported int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("cache schema version %d is newer than the supported version %d", e.Found, e.Supported)
}

// Store is the persistent verdict cache. It holds at most one record
// per (target, kind); upserts replace the previous record in full.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path. Databases written
// by older versions of the schema are upgraded in place.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if path == MemoryPath {
		// Every new pool connection would see its own empty in-memory
		// database, so pin the pool to a single connection.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema() error {
	var found int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&found); err != nil {
		return fmt.Errorf("reading cache schema version: %w", err)
	}
	if found > SchemaVersion {
		return &SchemaError{Found: found, Supported: SchemaVersion}
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS verdicts (
			target TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			http_code INTEGER NOT NULL DEFAULT 0,
			checked_at TEXT NOT NULL,
			expiry_kind TEXT NOT NULL,
			expiry_at TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (target, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_checked_at ON verdicts(checked_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	if found < SchemaVersion {
		// PRAGMA does not accept bound parameters.
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
			return fmt.Errorf("stamping cache schema version: %w", err)
		}
	}
	return nil
}

// Lookup fetches the cached record for (target, kind). The second
// return value reports whether a record exists; deciding whether the
// record is still fresh is the caller's job via CacheRecord.Valid.
func (s *Store) Lookup(ctx context.Context, target string, kind types.TargetKind) (types.CacheRecord, bool, error) {
	rec := types.CacheRecord{Target: target, Kind: kind}
	var checkedAt, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT status, http_code, checked_at, expiry_kind, expiry_at, reason
		 FROM verdicts WHERE target = ? AND kind = ?`,
		target, string(kind),
	).Scan(&rec.Status, &rec.HTTPCode, &checkedAt, &rec.Expiry, &expiresAt, &rec.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return types.CacheRecord{}, false, nil
	}
	if err != nil {
		return types.CacheRecord{}, false, fmt.Errorf("looking up cached verdict for %s: %w", target, err)
	}

	rec.CheckedAt = parseTime(checkedAt)
	rec.ExpiresAt = parseTime(expiresAt)
	return rec, true, nil
}

// Upsert stores rec, replacing any previous record for the same
// (target, kind). Last write wins.
func (s *Store) Upsert(ctx context.Context, rec types.CacheRecord) error {
	expiresAt := ""
	if !rec.ExpiresAt.IsZero() {
		expiresAt = rec.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verdicts (target, kind, status, http_code, checked_at, expiry_kind, expiry_at, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(target, kind) DO UPDATE SET
			status=excluded.status, http_code=excluded.http_code,
			checked_at=excluded.checked_at, expiry_kind=excluded.expiry_kind,
			expiry_at=excluded.expiry_at, reason=excluded.reason`,
		rec.Target, string(rec.Kind), string(rec.Status), rec.HTTPCode,
		rec.CheckedAt.UTC().Format(time.RFC3339Nano), string(rec.Expiry), expiresAt, string(rec.Reason),
	)
	if err != nil {
		return fmt.Errorf("upserting verdict for %s: %w", rec.Target, err)
	}
	return nil
}

// Remove deletes every record for target, regardless of kind. It
// returns the number of deleted records.
func (s *Store) Remove(ctx context.Context, target string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM verdicts WHERE target = ?`, target)
	if err != nil {
		return 0, fmt.Errorf("removing cached verdict for %s: %w", target, err)
	}
	return res.RowsAffected()
}

// Clear deletes all cached verdicts and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM verdicts`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes the cache contents for the stats subcommand.
type Stats struct {
	Path          string
	SchemaVersion int
	Records       int
	ByKind        map[types.TargetKind]int
	ByStatus      map[types.Status]int
	Oldest        time.Time
	Newest        time.Time
}

// Stats reports record counts broken down by kind and status, plus the
// age range of the cached verdicts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		Path:          s.path,
		SchemaVersion: SchemaVersion,
		ByKind:        make(map[types.TargetKind]int),
		ByStatus:      make(map[types.Status]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, status, COUNT(*) FROM verdicts GROUP BY kind, status`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting cached verdicts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind types.TargetKind
		var status types.Status
		var n int
		if err := rows.Scan(&kind, &status, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning cache counts: %w", err)
		}
		stats.ByKind[kind] += n
		stats.ByStatus[status] += n
		stats.Records += n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("reading cache counts: %w", err)
	}

	if stats.Records > 0 {
		var oldest, newest string
		err := s.db.QueryRowContext(ctx,
			`SELECT MIN(checked_at), MAX(checked_at) FROM verdicts`).Scan(&oldest, &newest)
		if err != nil {
			return Stats{}, fmt.Errorf("reading cache age range: %w", err)
		}
		stats.Oldest = parseTime(oldest)
		stats.Newest = parseTime(newest)
	}
	return stats, nil
}

// parseTime decodes a stored RFC 3339 timestamp. Unparseable values
// come back as the zero time, which reads as "expired" everywhere a
// timestamp matters, so a corrupted row degrades to a fresh check.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
