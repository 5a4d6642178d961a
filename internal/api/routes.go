package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/metrics"
)

// requestTimeout bounds a single request, including range generation.
const requestTimeout = 60 * time.Second

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /                          service descriptor
//	GET  /health                    liveness and cache health
//	GET  /metrics                   Prometheus metrics
//	POST /api/panchang              report for {date, latitude, longitude, timezone}
//	POST /api/today                 report for today at {latitude, longitude, timezone}
//	GET  /api/v1/panchang/range     reports for ?start=&end= (bounded by MAX_RANGE_DAYS)
//	GET  /api/v1/panchang/{date}    report for a date; "today" is accepted
//	GET  /api/v1/places             built-in or configured place catalogue
//	GET  /api/v1/admin/cache        cache statistics (X-API-Key)
//	POST /api/v1/admin/cache/purge  drop expired cache entries (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		MetricsMiddleware(m),
		CORSMiddleware(),
		chimw.Timeout(requestTimeout),
	))

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/", handlers.Index)
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	r.Post("/api/panchang", handlers.PostPanchang)
	r.Post("/api/today", handlers.PostToday)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/panchang/range", handlers.GetRangePanchang)
		r.Get("/panchang/{date}", handlers.GetPanchang)
		r.Get("/places", handlers.ListPlaces)

		// ======================================================================
		// Admin routes (admin key only)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg, logger))
			r.Get("/admin/cache", handlers.CacheStats)
			r.Post("/admin/cache/purge", handlers.PurgeCache)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}
