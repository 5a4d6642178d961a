// Package panchang computes the Tamil panchang for a civil date and place.
//
// The engine is pure: given an Ephemeris that answers Sun/Moon sidereal
// longitude and sunrise/sunset queries, Generate derives tithi, nakshatra,
// yoga, karana, the solar month, their transitions through the day, the
// daylight and night subdivisions (Rahu Kalam, Gowri Panchangam, Hora and
// friends) and the table-driven classifications. Nothing is cached or shared
// between calls apart from the read-only tables in this package.
//
// The Tamil day begins at sunrise, so a report covers sunrise of the civil
// date through sunrise of the following date.
package panchang

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Errors returned by Generate. Both are wrapped with detail.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEphemeris    = errors.New("ephemeris failure")
)

// Accepted input ranges.
const (
	MinYear     = 1900
	MaxYear     = 2100
	MinTimezone = -12.0
	MaxTimezone = 14.0
)

// DateLayout is the civil date format used on input and in reports.
const DateLayout = "2006-01-02"

// Location is a point on the Earth in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// RiseSetSource answers sunrise queries. Sunset is the first one after the
// returned sunrise.
type RiseSetSource interface {
	SunRiseSet(ctx context.Context, approx Instant, loc Location) (sunrise, sunset Instant, err error)
}

// Ephemeris is everything the engine needs from astronomy.
type Ephemeris interface {
	PositionSource
	RiseSetSource
}

// Request identifies one report.
type Request struct {
	Date     time.Time // only the calendar date is used
	Location Location
	Timezone float64 // hours east of UTC
}

// NewRequest parses date (YYYY-MM-DD) and validates all fields.
func NewRequest(date string, lat, lon, tz float64) (Request, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Request{}, err
	}
	req := Request{Date: d, Location: Location{Latitude: lat, Longitude: lon}, Timezone: tz}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ParseDate parses a civil date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// Validate reports every out-of-range field.
func (r Request) Validate() error {
	var errs []error

	if y := r.Date.Year(); y < MinYear || y > MaxYear {
		errs = append(errs, fmt.Errorf("%w: year %d must be between %d and %d", ErrInvalidInput, y, MinYear, MaxYear))
	}
	if !inRange(r.Location.Latitude, -90, 90) {
		errs = append(errs, fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidInput, r.Location.Latitude))
	}
	if !inRange(r.Location.Longitude, -180, 180) {
		errs = append(errs, fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidInput, r.Location.Longitude))
	}
	if !inRange(r.Timezone, MinTimezone, MaxTimezone) {
		errs = append(errs, fmt.Errorf("%w: timezone %v must be between %v and %v", ErrInvalidInput, r.Timezone, MinTimezone, MaxTimezone))
	}

	return errors.Join(errs...)
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// DateString returns the request date as YYYY-MM-DD.
func (r Request) DateString() string {
	return r.Date.Format(DateLayout)
}

// Option configures an Engine.
type Option func(*Engine)

// WithScanOptions sets how transitions are detected.
func WithScanOptions(opts ScanOptions) Option {
	return func(e *Engine) { e.scan = opts }
}

// Engine generates reports from an Ephemeris.
type Engine struct {
	eph  Ephemeris
	scan ScanOptions
}

// New returns an Engine backed by eph.
func New(eph Ephemeris, opts ...Option) *Engine {
	e := &Engine{eph: eph}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds the full report for req. Any ephemeris failure aborts
// the whole report.
func (e *Engine) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	clock := NewClock(req.Date, req.Timezone)

	day, err := e.resolveDay(ctx, req, clock)
	if err != nil {
		return nil, err
	}

	lon, err := e.eph.Positions(ctx, day.Sunrise)
	if err != nil {
		return nil, ephemerisError(ctx, err, "positions at sunrise")
	}

	scanner := Scanner{Positions: e.eph, Clock: clock, Options: e.scan}
	var transitions Transitions
	for _, t := range []struct {
		calc Calculator
		dst  *[]Segment
		kind string
	}{
		{TithiAt, &transitions.Tithi, "tithi"},
		{NakshatraAt, &transitions.Nakshatra, "nakshatra"},
		{YogaAt, &transitions.Yoga, "yoga"},
	} {
		segs, err := scanner.Scan(ctx, t.calc, day.Sunrise, day.NextSunrise)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.kind, err)
		}
		*t.dst = segs
	}

	tithi := TithiAt(lon)
	nakshatra := NakshatraAt(lon)
	month := SolarMonthOf(lon.Sun)
	sunSign := RasiOf(lon.Sun)
	moonSign := RasiOf(lon.Moon)

	dhur := day.Dhurmuhurtham()
	gowriDay, gowriNight := day.GowriPanchangam()

	return &Report{
		Date: req.DateString(),
		Location: ReportLocation{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Timezone:  req.Timezone,
		},
		TamilMonth: month,
		Rutu:       RutuOf(month.Name),
		Ayana:      AyanaOf(lon.Sun),
		Weekday: Weekday{
			Number:  int(day.Weekday),
			English: day.Weekday.String(),
			Tamil:   lookup(WeekdaysTamil[:], int(day.Weekday), "weekday"),
		},
		Sunrise:     clock.TimeOfDay(day.Sunrise),
		Sunset:      clock.TimeOfDay(day.Sunset),
		NextSunrise: clock.Stamp(day.NextSunrise),

		Tithi:       tithi,
		Nakshatra:   nakshatra,
		Yoga:        YogaAt(lon),
		Karana:      KaranaAt(lon),
		Transitions: transitions,

		SunSign:  sunSign,
		MoonSign: moonSign,

		Inauspicious: InauspiciousTimings{
			RahuKalam:    clock.Span(day.RahuKalam()),
			Yamagandam:   clock.Span(day.Yamagandam()),
			GulikaiKalam: clock.Span(day.GulikaiKalam()),
			Dhurmuhurtham: MuhurtaSpan{
				TimeSpan:        clock.Span(dhur.Window),
				Muhurta:         dhur.Index,
				DurationMinutes: round2(dhur.Minutes()),
			},
		},
		GowriPanchangam: GowriPanchangam{
			Day:   clock.periods(gowriDay),
			Night: clock.periods(gowriNight),
		},
		NallaNeram: clock.periods(NallaNeram(gowriDay, gowriNight)),
		Hora:       clock.periods(day.Horas()),

		NokkuNaal:      NokkuNaalOf(nakshatra.Name),
		AmirthathiYoga: AmirthathiYogaOf(day.Weekday, nakshatra.Number),
		SpecialYoga:    SpecialYogaOf(day.Weekday, nakshatra.Number-1),
		Chandrashtamam: ChandrashtamamOf(moonSign.Index, nakshatra.Number-1),
	}, nil
}

// resolveDay finds sunrise, sunset and next sunrise for the civil date.
// The search starts at 06:00 local time.
func (e *Engine) resolveDay(ctx context.Context, req Request, clock Clock) (Day, error) {
	approx := clock.At(6, 0)

	sunrise, sunset, err := e.eph.SunRiseSet(ctx, approx, req.Location)
	if err != nil {
		return Day{}, ephemerisError(ctx, err, "sunrise for "+req.DateString())
	}
	next, _, err := e.eph.SunRiseSet(ctx, approx.Add(1), req.Location)
	if err != nil {
		return Day{}, ephemerisError(ctx, err, "next sunrise after "+req.DateString())
	}
	if !(sunrise < sunset && sunset < next) {
		return Day{}, fmt.Errorf("%w: inconsistent rise/set sequence for %s", ErrEphemeris, req.DateString())
	}

	return Day{
		Sunrise:     sunrise,
		Sunset:      sunset,
		NextSunrise: next,
		Weekday:     req.Date.Weekday(),
	}, nil
}

// ephemerisError wraps a failed ephemeris query with ErrEphemeris. Context
// cancellation and deadline errors are returned without the sentinel.
func ephemerisError(ctx context.Context, err error, what string) error {
	if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
		return fmt.Errorf("%s: %w: %w", what, cerr, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrEphemeris, what, err)
}

// CivilDate returns the calendar date in effect at t for a UTC offset of tz hours.
func CivilDate(t time.Time, tz float64) string {
	offset := time.Duration(math.Round(tz*3600)) * time.Second
	return t.UTC().Add(offset).Format(DateLayout)
}
