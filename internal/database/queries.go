package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timestampLayout sorts lexically in time order, which the expiry queries rely on.
const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp returns the zero time for empty or unparseable values.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timestampLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// Report Queries
// =============================================================================

// GetReport returns the live report stored under key and counts the hit.
// Returns ErrNotFound if the key is absent or expired at now.
func (db *DB) GetReport(ctx context.Context, key string, now time.Time) (*StoredReport, error) {
	var (
		r                    StoredReport
		createdAt, expiresAt string
	)
	err := db.QueryRowContext(ctx, `
		SELECT cache_key, date, latitude, longitude, timezone, payload, hits, created_at, expires_at
		FROM reports
		WHERE cache_key = ?
	`, key).Scan(&r.Key, &r.Date, &r.Latitude, &r.Longitude, &r.Timezone,
		&r.Payload, &r.Hits, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query report %s: %w", key, err)
	}

	r.CreatedAt = parseTimestamp(createdAt)
	r.ExpiresAt = parseTimestamp(expiresAt)
	if r.Expired(now) {
		return nil, ErrNotFound
	}

	if _, err := db.ExecContext(ctx,
		"UPDATE reports SET hits = hits + 1 WHERE cache_key = ?", key,
	); err != nil {
		return nil, fmt.Errorf("count hit for %s: %w", key, err)
	}
	r.Hits++

	return &r, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutReport inserts or replaces the report stored under r.Key.
func (db *DB) PutReport(ctx context.Context, r *StoredReport) error {
	return putReport(ctx, db, r)
}

// PutReport stores r as part of the transaction.
func (tx *Tx) PutReport(ctx context.Context, r *StoredReport) error {
	return putReport(ctx, tx, r)
}

func putReport(ctx context.Context, exec execer, r *StoredReport) error {
	if r.Key == "" {
		return errors.New("report key is empty")
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := exec.ExecContext(ctx, `
		INSERT INTO reports (cache_key, date, latitude, longitude, timezone, payload, hits, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			date = excluded.date,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, r.Key, r.Date, r.Latitude, r.Longitude, r.Timezone, r.Payload,
		formatTimestamp(created), formatTimestamp(r.ExpiresAt))
	if err != nil {
		return fmt.Errorf("upsert report %s: %w", r.Key, err)
	}
	return nil
}

// DeleteReport removes the report stored under key.
// Returns ErrNotFound if nothing was stored.
func (db *DB) DeleteReport(ctx context.Context, key string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM reports WHERE cache_key = ?", key)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired deletes every report expired at now and returns the count.
func (db *DB) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		"DELETE FROM reports WHERE expires_at != '' AND expires_at <= ?",
		formatTimestamp(now))
	if err != nil {
		return 0, fmt.Errorf("purge expired reports: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes the stored reports.
func (db *DB) Stats(ctx context.Context, now time.Time) (*StoreStats, error) {
	var (
		s                StoreStats
		earliest, latest sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at != '' AND expires_at <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(hits), 0),
			MIN(date),
			MAX(date)
		FROM reports
	`, formatTimestamp(now)).Scan(&s.Entries, &s.Expired, &s.TotalHits, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("query report stats: %w", err)
	}
	s.Earliest = earliest.String
	s.Latest = latest.String
	return &s, nil
}
