package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/panchang-api/internal/cache"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/panchang"
	"github.com/zapponejosh/panchang-api/internal/places"
	"github.com/zapponejosh/panchang-api/internal/render"
)

// Version is reported by the service descriptor.
const Version = "1.0.0"

// CacheAdmin is implemented by caches that can report and purge their contents.
type CacheAdmin interface {
	Stats(ctx context.Context) (*database.StoreStats, error)
	Purge(ctx context.Context) (int64, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	reports cache.Generator
	cache   cache.Cache
	places  *places.Catalogue
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandlers creates a new Handlers instance. c may be nil when no cache
// is configured.
func NewHandlers(reports cache.Generator, c cache.Cache, pl *places.Catalogue, cfg *config.Config, logger *slog.Logger) *Handlers {
	if pl == nil {
		pl = places.Builtin()
	}
	return &Handlers{
		reports: reports,
		cache:   c,
		places:  pl,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// panchangRequest is the POST body of /api/panchang and /api/today.
type panchangRequest struct {
	Date      string   `json:"date"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  *float64 `json:"timezone"`
}

// Index handles GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"message": "Tamil Panchang API",
		"version": Version,
		"endpoints": map[string]string{
			"panchang": "POST /api/panchang",
			"today":    "POST /api/today",
			"date":     "GET /api/v1/panchang/{date}",
			"range":    "GET /api/v1/panchang/range",
			"places":   "GET /api/v1/places",
			"health":   "GET /health",
			"metrics":  "GET /metrics",
		},
	})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			WriteServiceUnavailable(w, "Cache unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// PostPanchang handles POST /api/panchang
func (h *Handlers) PostPanchang(w http.ResponseWriter, r *http.Request) {
	var body panchangRequest
	if err := decodeJSON(r, &body); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if body.Date == "" {
		WriteBadRequest(w, "date is required")
		return
	}
	h.servePosted(w, r, body)
}

// PostToday handles POST /api/today. The date is the current civil date at
// the requested offset.
func (h *Handlers) PostToday(w http.ResponseWriter, r *http.Request) {
	var body panchangRequest
	if err := decodeJSON(r, &body); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	body.Date = panchang.CivilDate(h.now(), h.timezone(body.Timezone))
	h.servePosted(w, r, body)
}

func (h *Handlers) servePosted(w http.ResponseWriter, r *http.Request, body panchangRequest) {
	if body.Latitude == nil || body.Longitude == nil {
		WriteBadRequest(w, "latitude and longitude are required")
		return
	}

	req, err := panchang.NewRequest(body.Date, *body.Latitude, *body.Longitude, h.timezone(body.Timezone))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	report, err := h.generate(r.Context(), req)
	if err != nil {
		writeReportError(w, err)
		return
	}
	WriteSuccess(w, report)
}

// GetPanchang handles GET /api/v1/panchang/{date}?lat=&lon=&tz=&place=&format=
func (h *Handlers) GetPanchang(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "today" {
		dateStr = ""
	}

	format, err := parseFormat(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	loc, tz, err := h.locationFromQuery(r)
	if err != nil {
		writeLocationError(w, err)
		return
	}
	if dateStr == "" {
		dateStr = panchang.CivilDate(h.now(), tz)
	}

	req, err := panchang.NewRequest(dateStr, loc.Latitude, loc.Longitude, tz)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	report, err := h.generate(r.Context(), req)
	if err != nil {
		writeReportError(w, err)
		return
	}

	if format == formatMarkdown {
		WriteMarkdown(w, render.Markdown(report))
		return
	}
	WriteSuccess(w, report)
}

// GetRangePanchang handles GET /api/v1/panchang/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRangePanchang(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := panchang.ParseDate(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := panchang.ParseDate(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if startDate.After(endDate) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if days > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	format, err := parseFormat(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	loc, tz, err := h.locationFromQuery(r)
	if err != nil {
		writeLocationError(w, err)
		return
	}

	reqs := make([]panchang.Request, days)
	for i := range reqs {
		reqs[i] = panchang.Request{Date: startDate.AddDate(0, 0, i), Location: loc, Timezone: tz}
		if err := reqs[i].Validate(); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
	}

	reports, err := GenerateAll(ctx, h.reports, reqs, h.cfg.RangeWorkers)
	if err != nil {
		logger.Error(ctx, "failed to generate range", err,
			slog.String("start", startStr),
			slog.String("end", endStr))
		writeReportError(w, err)
		return
	}

	if format == formatMarkdown {
		parts := make([]string, len(reports))
		for i, rep := range reports {
			parts[i] = render.Markdown(rep)
		}
		WriteMarkdown(w, strings.Join(parts, "\n---\n\n"))
		return
	}

	WriteSuccess(w, map[string]any{
		"start":    startStr,
		"end":      endStr,
		"location": panchang.ReportLocation{Latitude: loc.Latitude, Longitude: loc.Longitude, Timezone: tz},
		"reports":  reports,
	})
}

// GenerateAll computes one report per request with at most workers in
// flight. Results keep the order of reqs; the first failure cancels the rest.
func GenerateAll(ctx context.Context, gen cache.Generator, reqs []panchang.Request, workers int) ([]*panchang.Report, error) {
	reports := make([]*panchang.Report, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, req := range reqs {
		g.Go(func() error {
			rep, err := gen.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", req.DateString(), err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ListPlaces handles GET /api/v1/places
func (h *Handlers) ListPlaces(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"places": h.places.All(),
	})
}

// CacheStats handles GET /api/v1/admin/cache
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.cache.(CacheAdmin)
	if !ok {
		WriteError(w, http.StatusNotImplemented, "Cache backend does not support administration", "NOT_IMPLEMENTED")
		return
	}

	stats, err := admin.Stats(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to read cache stats", err)
		WriteInternalError(w, "Failed to read cache statistics")
		return
	}
	WriteSuccess(w, stats)
}

// PurgeCache handles POST /api/v1/admin/cache/purge
func (h *Handlers) PurgeCache(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.cache.(CacheAdmin)
	if !ok {
		WriteError(w, http.StatusNotImplemented, "Cache backend does not support administration", "NOT_IMPLEMENTED")
		return
	}

	n, err := admin.Purge(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to purge cache", err)
		WriteInternalError(w, "Failed to purge cache")
		return
	}
	logger.Info(r.Context(), "cache purged", slog.Int64("removed", n))
	WriteSuccess(w, map[string]int64{"removed": n})
}

func (h *Handlers) generate(ctx context.Context, req panchang.Request) (*panchang.Report, error) {
	report, err := h.reports.Generate(ctx, req)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Warn(ctx, "panchang generation canceled",
			slog.String("date", req.DateString()),
			slog.String("error", err.Error()))
		return nil, err
	}
	if err != nil && !errors.Is(err, panchang.ErrInvalidInput) {
		logger.Error(ctx, "failed to generate panchang", err,
			slog.String("date", req.DateString()),
			slog.Float64("lat", req.Location.Latitude),
			slog.Float64("lon", req.Location.Longitude),
			slog.Float64("tz", req.Timezone))
	}
	return report, err
}

func (h *Handlers) timezone(tz *float64) float64 {
	if tz != nil {
		return *tz
	}
	return h.cfg.DefaultTimezone
}

// locationFromQuery resolves ?place= or ?lat=&lon=, with ?tz= overriding
// the place's offset or the configured default.
func (h *Handlers) locationFromQuery(r *http.Request) (panchang.Location, float64, error) {
	q := r.URL.Query()

	var loc panchang.Location
	tz := h.cfg.DefaultTimezone

	if name := q.Get("place"); name != "" {
		p, err := h.places.Lookup(name)
		if err != nil {
			return loc, 0, err
		}
		loc, tz = p.Location(), p.Timezone
	} else {
		latStr, lonStr := q.Get("lat"), q.Get("lon")
		if latStr == "" || lonStr == "" {
			return loc, 0, fmt.Errorf("%w: lat and lon (or place) are required", panchang.ErrInvalidInput)
		}
		var err error
		if loc.Latitude, err = strconv.ParseFloat(latStr, 64); err != nil {
			return loc, 0, fmt.Errorf("%w: invalid lat %q", panchang.ErrInvalidInput, latStr)
		}
		if loc.Longitude, err = strconv.ParseFloat(lonStr, 64); err != nil {
			return loc, 0, fmt.Errorf("%w: invalid lon %q", panchang.ErrInvalidInput, lonStr)
		}
	}

	if tzStr := q.Get("tz"); tzStr != "" {
		v, err := strconv.ParseFloat(tzStr, 64)
		if err != nil {
			return loc, 0, fmt.Errorf("%w: invalid tz %q", panchang.ErrInvalidInput, tzStr)
		}
		tz = v
	}
	return loc, tz, nil
}

func writeLocationError(w http.ResponseWriter, err error) {
	if errors.Is(err, places.ErrUnknownPlace) {
		WriteNotFound(w, err.Error())
		return
	}
	WriteBadRequest(w, err.Error())
}

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func parseFormat(r *http.Request) (string, error) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", formatJSON:
		return formatJSON, nil
	case formatMarkdown, "md":
		return formatMarkdown, nil
	default:
		return "", fmt.Errorf("format must be json or markdown, got %q", f)
	}
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}
