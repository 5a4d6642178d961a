// Command import loads precomputed panchang reports into the SQLite report cache.
//
// Usage:
//
//	go run ./cmd/panchang range --start 2025-01-01 --end 2025-12-31 --place chennai -f json > chennai-2025.json
//	go run ./cmd/import -json chennai-2025.json -db data/panchang.db
//
// This tool:
// 1. Parses a JSON report or array of reports
// 2. Creates/opens the SQLite database
// 3. Runs migrations to ensure schema is current
// 4. Stores every report in a single transaction under the key the API uses
//
// Importing the same reports twice replaces the earlier copies.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/panchang-api/internal/cache"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

func main() {
	// Parse command line flags
	jsonPath := flag.String("json", "", "Path to a JSON report or array of reports")
	dbPath := flag.String("db", "data/panchang.db", "Path to SQLite database")
	variant := flag.String("variant", "minute", "Scan variant the reports were computed with: minute or refine")
	ttl := flag.Duration("ttl", 0, "Expiry for imported reports (0 keeps them forever)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	if *jsonPath == "" {
		log.Error("import failed", slog.String("error", "-json is required"))
		os.Exit(2)
	}

	// Run import
	if err := run(*jsonPath, *dbPath, *variant, *ttl, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(jsonPath, dbPath, variant string, ttl time.Duration, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse JSON
	// =========================================================================
	log.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	reports, err := parseReports(data)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	log.Info("parsed JSON", slog.Int("reports", len(reports)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import data in a transaction
	// =========================================================================
	log.Info("starting import")

	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importReports(ctx, tx, reports, variant, ttl, startTime, log, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	store, err := db.Stats(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	elapsed := time.Since(startTime)

	log.Info("import verified",
		slog.Int("entries", store.Entries),
		slog.String("earliest", store.Earliest),
		slog.String("latest", store.Latest),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Reports imported:    %d\n", stats.Reports)
	fmt.Printf("Distinct locations:  %d\n", len(stats.Locations))
	fmt.Printf("Date span:           %s to %s\n", stats.First, stats.Last)
	fmt.Printf("Entries in store:    %d\n", store.Entries)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Reports     int
	Locations   map[panchang.ReportLocation]bool
	First, Last string
}

// parseReports accepts a single report object or an array of them.
func parseReports(data []byte) ([]*panchang.Report, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var r panchang.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return []*panchang.Report{&r}, nil
	}

	var list []*panchang.Report
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// importReports stores every report under its cache key.
func importReports(ctx context.Context, tx *database.Tx, reports []*panchang.Report, variant string, ttl time.Duration, now time.Time, log *slog.Logger, stats *ImportStats) error {
	stats.Locations = make(map[panchang.ReportLocation]bool)

	for i, r := range reports {
		loc := r.Location
		req, err := panchang.NewRequest(r.Date, loc.Latitude, loc.Longitude, loc.Timezone)
		if err != nil {
			return fmt.Errorf("report %d (%s): %w", i+1, r.Date, err)
		}

		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode report %d: %w", i+1, err)
		}

		stored := &database.StoredReport{
			Key:       cache.Key(req, variant),
			Date:      r.Date,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Timezone:  loc.Timezone,
			Payload:   payload,
			CreatedAt: now,
		}
		if ttl > 0 {
			stored.ExpiresAt = now.Add(ttl)
		}

		if err := tx.PutReport(ctx, stored); err != nil {
			return fmt.Errorf("store report %d (%s): %w", i+1, r.Date, err)
		}

		stats.Reports++
		stats.Locations[loc] = true
		if stats.First == "" || r.Date < stats.First {
			stats.First = r.Date
		}
		if r.Date > stats.Last {
			stats.Last = r.Date
		}

		// Progress logging every 50 reports
		if (i+1)%50 == 0 {
			log.Debug("import progress",
				slog.Int("report", i+1),
				slog.Int("total", len(reports)),
			)
		}
	}

	return nil
}
