package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGenerate(t *testing.T) {
	m := New()
	m.ObserveGenerate(time.Now(), "ok")
	m.ObserveGenerate(time.Now(), "ok")
	m.ObserveGenerate(time.Now(), "ephemeris")

	if got := testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("ephemeris")); got != 1 {
		t.Errorf("ephemeris = %v, want 1", got)
	}
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/health", 200, time.Now())
	m.ObserveHTTP("GET", "/health", 503, time.Now())
	m.ObserveHTTP("POST", "/api/panchang", 422, time.Now())

	tests := []struct {
		method, route, status string
		want                  float64
	}{
		{"GET", "/health", "2xx", 1},
		{"GET", "/health", "5xx", 1},
		{"POST", "/api/panchang", "4xx", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(tt.method, tt.route, tt.status))
		if got != tt.want {
			t.Errorf("%s %s %s = %v, want %v", tt.method, tt.route, tt.status, got, tt.want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(), New()
	a.IncrementCache("hit")
	if got := testutil.ToFloat64(b.CacheLookups.WithLabelValues("hit")); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}
