// Package cache stores generated panchang reports. Reports are pure
// functions of their request, so entries never need invalidation beyond a TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Cache stores reports keyed by request.
type Cache interface {
	// Get returns the stored report, or false on a miss.
	Get(ctx context.Context, key string) (*panchang.Report, bool, error)
	// Set stores a report. A zero ttl never expires.
	Set(ctx context.Context, key string, req panchang.Request, r *panchang.Report, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // sqlite
	RedisURL string // redis
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendSQLite:
		c, err := NewSQLiteCache(ctx, opts.Path, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Key identifies a report. variant separates reports computed with
// different scan options. Coordinates are rounded to six decimals.
func Key(req panchang.Request, variant string) string {
	return fmt.Sprintf("panchang:v1:%s:%s:%g:%g:%g",
		variant, req.DateString(), coord(req.Location.Latitude), coord(req.Location.Longitude), req.Timezone)
}

// coord rounds to 1e-6 degrees and folds -0 into 0.
func coord(deg float64) float64 {
	r := math.Round(deg*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// ErrCorrupt is returned when a stored payload cannot be decoded.
var ErrCorrupt = errors.New("corrupt cache entry")
