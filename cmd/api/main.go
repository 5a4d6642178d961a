// Package main is the entry point for the Tamil Panchang API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/cache"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/ephemeris"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/metrics"
	"github.com/zapponejosh/panchang-api/internal/panchang"
	"github.com/zapponejosh/panchang-api/internal/places"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting panchang API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("cache", cfg.CacheBackend),
		slog.Bool("scan_refine", cfg.ScanRefine),
	)

	catalogue, err := places.Load(cfg.PlacesFile)
	if err != nil {
		return fmt.Errorf("load places: %w", err)
	}

	store, err := cache.Open(ctx, cache.Options{
		Backend:  cfg.CacheBackend,
		Path:     cfg.CachePath,
		RedisURL: cfg.RedisURL,
	}, log)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	m := metrics.New()
	engine := panchang.New(ephemeris.New(), panchang.WithScanOptions(panchang.ScanOptions{Refine: cfg.ScanRefine}))
	reports := cache.NewEngine(engine, store,
		cache.WithTTL(cfg.CacheTTL),
		cache.WithVariant(scanVariant(cfg.ScanRefine)),
		cache.WithMetrics(m),
	)

	handlers := api.NewHandlers(reports, store, catalogue, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, m, log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("panchang API ready", slog.String("addr", srv.Addr), slog.Int("places", catalogue.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func scanVariant(refine bool) string {
	if refine {
		return "refine"
	}
	return "minute"
}
