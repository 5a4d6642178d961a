package database

// migrationsSQL contains all database migrations, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1Reports,
	2: migrationV2Expiry,
}

// migrationV1Reports stores one serialized report per request key.
const migrationV1Reports = `
CREATE TABLE IF NOT EXISTS reports (
	cache_key  TEXT PRIMARY KEY,
	date       TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	timezone   REAL NOT NULL,
	payload    BLOB NOT NULL,
	hits       INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_date ON reports(date);
`

// migrationV2Expiry adds per-entry expiry. An empty value never expires.
const migrationV2Expiry = `
ALTER TABLE reports ADD COLUMN expires_at TEXT NOT NULL DEFAULT '';

CREATE INDEX IF NOT EXISTS idx_reports_expires ON reports(expires_at);
`
