package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/metrics"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// Generator produces a report for a request.
type Generator interface {
	Generate(ctx context.Context, req panchang.Request) (*panchang.Report, error)
}

// Engine serves reports from a Cache and falls back to an underlying
// Generator on a miss. Cache failures are logged and never fail a request.
type Engine struct {
	next    Generator
	cache   Cache
	ttl     time.Duration
	variant string
	metrics *metrics.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTTL sets how long stored reports live.
func WithTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) { e.ttl = ttl }
}

// WithVariant separates keys for engines with different scan options.
func WithVariant(v string) EngineOption {
	return func(e *Engine) { e.variant = v }
}

// WithMetrics records generation and cache lookups.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine wraps next with c.
func NewEngine(next Generator, c Cache, opts ...EngineOption) *Engine {
	if c == nil {
		c = NewNullCache()
	}
	e := &Engine{next: next, cache: c, variant: "minute"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate returns a cached report or computes and stores a fresh one.
func (e *Engine) Generate(ctx context.Context, req panchang.Request) (*panchang.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := Key(req, e.variant)

	r, ok, err := e.cache.Get(ctx, key)
	switch {
	case err != nil:
		e.countCache("error")
		logger.Warn(ctx, "report cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	case ok:
		e.countCache("hit")
		return r, nil
	default:
		e.countCache("miss")
	}

	start := time.Now()
	r, err = e.next.Generate(ctx, req)
	e.observe(start, err)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, key, req, r, e.ttl); err != nil {
		logger.Warn(ctx, "report cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return r, nil
}

// Health reports the cache backend health.
func (e *Engine) Health(ctx context.Context) error {
	return e.cache.Health(ctx)
}

func (e *Engine) countCache(result string) {
	if e.metrics != nil {
		e.metrics.IncrementCache(result)
	}
}

func (e *Engine) observe(start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, panchang.ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, panchang.ErrEphemeris):
		result = "ephemeris"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "canceled"
	case err != nil:
		result = "error"
	}
	e.metrics.ObserveGenerate(start, result)
}
