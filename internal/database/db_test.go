package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"
)

// testDB creates a migrated in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func sampleReport(key, date string) *StoredReport {
	return &StoredReport{
		Key:       key,
		Date:      date,
		Latitude:  13.0827,
		Longitude: 80.2707,
		Timezone:  5.5,
		Payload:   []byte(`{"date":"` + date + `"}`),
	}
}

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Already migrated by testDB.
	n, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Migrate() applied %d, want 0", n)
	}

	var versions int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&versions); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if versions != len(migrationsSQL) {
		t.Errorf("recorded %d migrations, want %d", versions, len(migrationsSQL))
	}
}

func TestPutAndGetReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := db.PutReport(ctx, sampleReport("k1", "2024-01-15")); err != nil {
		t.Fatalf("PutReport() error = %v", err)
	}

	got, err := db.GetReport(ctx, "k1", now)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Date != "2024-01-15" || got.Timezone != 5.5 {
		t.Errorf("GetReport() = %+v", got)
	}
	if string(got.Payload) != `{"date":"2024-01-15"}` {
		t.Errorf("Payload = %s", got.Payload)
	}
	if got.Hits != 1 {
		t.Errorf("Hits = %d, want 1", got.Hits)
	}

	got, err = db.GetReport(ctx, "k1", now)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Hits != 2 {
		t.Errorf("Hits = %d, want 2", got.Hits)
	}
}

func TestPutReport_Replaces(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.PutReport(ctx, sampleReport("k1", "2024-01-15")); err != nil {
		t.Fatalf("PutReport() error = %v", err)
	}
	r := sampleReport("k1", "2024-01-16")
	if err := db.PutReport(ctx, r); err != nil {
		t.Fatalf("PutReport() replace error = %v", err)
	}

	got, err := db.GetReport(ctx, "k1", time.Now())
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Date != "2024-01-16" {
		t.Errorf("Date = %s, want replaced value", got.Date)
	}
}

func TestPutReport_EmptyKey(t *testing.T) {
	db := testDB(t)
	if err := db.PutReport(context.Background(), sampleReport("", "2024-01-15")); err == nil {
		t.Error("PutReport() with empty key should fail")
	}
}

func TestGetReport_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetReport(context.Background(), "missing", time.Now())
	if !IsNotFound(err) {
		t.Errorf("GetReport() error = %v, want ErrNotFound", err)
	}
}

func TestGetReport_Expired(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	r := sampleReport("k1", "2024-01-15")
	r.ExpiresAt = now.Add(time.Hour)
	if err := db.PutReport(ctx, r); err != nil {
		t.Fatalf("PutReport() error = %v", err)
	}

	if _, err := db.GetReport(ctx, "k1", now); err != nil {
		t.Errorf("GetReport() before expiry error = %v", err)
	}
	if _, err := db.GetReport(ctx, "k1", now.Add(2*time.Hour)); !IsNotFound(err) {
		t.Errorf("GetReport() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestDeleteReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.PutReport(ctx, sampleReport("k1", "2024-01-15")); err != nil {
		t.Fatalf("PutReport() error = %v", err)
	}
	if err := db.DeleteReport(ctx, "k1"); err != nil {
		t.Fatalf("DeleteReport() error = %v", err)
	}
	if err := db.DeleteReport(ctx, "k1"); !IsNotFound(err) {
		t.Errorf("second DeleteReport() error = %v, want ErrNotFound", err)
	}
}

func TestPurgeExpiredAndStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	old := sampleReport("old", "2024-01-01")
	old.ExpiresAt = now.Add(-time.Minute)
	live := sampleReport("live", "2024-01-20")
	live.ExpiresAt = now.Add(time.Hour)
	forever := sampleReport("forever", "2024-01-10")

	for _, r := range []*StoredReport{old, live, forever} {
		if err := db.PutReport(ctx, r); err != nil {
			t.Fatalf("PutReport(%s) error = %v", r.Key, err)
		}
	}

	stats, err := db.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 3 || stats.Expired != 1 {
		t.Errorf("Stats() = %+v, want 3 entries, 1 expired", stats)
	}
	if stats.Earliest != "2024-01-01" || stats.Latest != "2024-01-20" {
		t.Errorf("Stats() range = %s..%s", stats.Earliest, stats.Latest)
	}

	n, err := db.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("PurgeExpired() = %d, want 1", n)
	}
	if _, err := db.GetReport(ctx, "forever", now.AddDate(10, 0, 0)); err != nil {
		t.Errorf("report without expiry was lost: %v", err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reports (cache_key, date, latitude, longitude, timezone, payload) VALUES ('tx', '2024-01-15', 0, 0, 0, x'00')",
		); err != nil {
			return err
		}
		return context.Canceled
	})
	if err != context.Canceled {
		t.Fatalf("WithTx() error = %v, want context.Canceled", err)
	}

	if _, err := db.GetReport(ctx, "tx", time.Now()); !IsNotFound(err) {
		t.Errorf("rolled back row is visible: %v", err)
	}
}

func TestTx_PutReport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		for _, d := range []string{"2024-01-15", "2024-01-16"} {
			if err := tx.PutReport(ctx, sampleReport("k:"+d, d)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	stats, err := db.Stats(ctx, time.Now())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 2 || stats.Earliest != "2024-01-15" || stats.Latest != "2024-01-16" {
		t.Errorf("Stats() = %+v", stats)
	}
}
