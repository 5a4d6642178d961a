package database

import "time"

// StoredReport is a serialized panchang report and its request coordinates.
type StoredReport struct {
	Key       string    `json:"key"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  float64   `json:"timezone"`
	Payload   []byte    `json:"-"`
	Hits      int       `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // zero means no expiry
}

// Expired reports whether r is past its expiry at now.
func (r *StoredReport) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// StoreStats summarizes the report table.
type StoreStats struct {
	Entries   int    `json:"entries"`
	Expired   int    `json:"expired"`
	TotalHits int    `json:"total_hits"`
	Earliest  string `json:"earliest_date,omitempty"`
	Latest    string `json:"latest_date,omitempty"`
}
