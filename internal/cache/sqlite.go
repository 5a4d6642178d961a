package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// SQLiteCache keeps reports in the SQLite report store.
type SQLiteCache struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLiteCache opens and migrates the database at path.
func NewSQLiteCache(ctx context.Context, path string, logger *slog.Logger) (*SQLiteCache, error) {
	db, err := database.Open(database.DefaultConfig(path), logger)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate report store: %w", err)
	}
	return &SQLiteCache{db: db, now: time.Now}, nil
}

// Get decodes the live report stored under key.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*panchang.Report, bool, error) {
	stored, err := c.db.GetReport(ctx, key, c.now())
	if database.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var r panchang.Report
	if err := json.Unmarshal(stored.Payload, &r); err != nil {
		_ = c.db.DeleteReport(ctx, key)
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return &r, true, nil
}

// Set stores r with its request coordinates.
func (c *SQLiteCache) Set(ctx context.Context, key string, req panchang.Request, r *panchang.Report, ttl time.Duration) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	now := c.now()
	stored := &database.StoredReport{
		Key:       key,
		Date:      req.DateString(),
		Latitude:  req.Location.Latitude,
		Longitude: req.Location.Longitude,
		Timezone:  req.Timezone,
		Payload:   payload,
		CreatedAt: now,
	}
	if ttl > 0 {
		stored.ExpiresAt = now.Add(ttl)
	}
	return c.db.PutReport(ctx, stored)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	err := c.db.DeleteReport(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	return err
}

// Purge removes expired entries.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	return c.db.PurgeExpired(ctx, c.now())
}

// Stats summarizes the store.
func (c *SQLiteCache) Stats(ctx context.Context) (*database.StoreStats, error) {
	return c.db.Stats(ctx, c.now())
}

// Health pings the database.
func (c *SQLiteCache) Health(ctx context.Context) error {
	return c.db.Health(ctx)
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*SQLiteCache)(nil)
