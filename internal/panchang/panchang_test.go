package panchang

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// fakeEphemeris gives a twelve hour day starting at the approximate instant,
// a fixed Sun at 275° and a Moon moving 13.2° a day from moonAtRise.
type fakeEphemeris struct {
	moonAtRise float64
	riseErr    error
	posErr     error
	badOrder   bool
	rise       Instant // set on first SunRiseSet call
}

func (f *fakeEphemeris) SunRiseSet(ctx context.Context, approx Instant, _ Location) (Instant, Instant, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if f.riseErr != nil {
		return 0, 0, f.riseErr
	}
	if f.rise == 0 {
		f.rise = approx
	}
	if f.badOrder {
		return approx, approx.Add(-0.1), nil
	}
	return approx, approx.Add(0.5), nil
}

func (f *fakeEphemeris) Positions(ctx context.Context, at Instant) (Longitudes, error) {
	if err := ctx.Err(); err != nil {
		return Longitudes{}, err
	}
	if f.posErr != nil {
		return Longitudes{}, f.posErr
	}
	return Longitudes{
		Sun:  275,
		Moon: Normalize(f.moonAtRise + 13.2*float64(at-f.rise)),
	}, nil
}

func chennaiRequest(t *testing.T) Request {
	t.Helper()
	req, err := NewRequest("2024-01-15", 13.0827, 80.2707, 5.5)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestGenerate(t *testing.T) {
	eng := New(&fakeEphemeris{moonAtRise: 7})
	r, err := eng.Generate(context.Background(), chennaiRequest(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if r.Date != "2024-01-15" {
		t.Errorf("Date = %q", r.Date)
	}
	if r.Weekday.Number != 1 || r.Weekday.English != "Monday" || r.Weekday.Tamil != "Thingal" {
		t.Errorf("Weekday = %+v, want Monday", r.Weekday)
	}
	if r.Sunrise != "06:00:00" || r.Sunset != "18:00:00" {
		t.Errorf("sun = %s / %s, want 06:00:00 / 18:00:00", r.Sunrise, r.Sunset)
	}
	if r.NextSunrise != "06:00:00 (2024-01-16)" {
		t.Errorf("NextSunrise = %q", r.NextSunrise)
	}

	if r.TamilMonth.Name != "Thai" || r.Rutu.Name != "Hemantha Rutu" || r.Ayana != Uttarayana {
		t.Errorf("month/rutu/ayana = %s/%s/%s", r.TamilMonth.Name, r.Rutu.Name, r.Ayana)
	}
	if r.Tithi.Number != 8 || r.Tithi.Paksha != Shukla {
		t.Errorf("Tithi = %+v, want 8 Shukla", r.Tithi)
	}
	if r.Nakshatra.Name != "Aswini" {
		t.Errorf("Nakshatra = %+v, want Aswini", r.Nakshatra)
	}
	if r.Yoga.Number != 22 || r.Yoga.Name != "Sadhya" {
		t.Errorf("Yoga = %+v, want 22 Sadhya", r.Yoga)
	}
	if r.Karana.Number != 16 || r.Karana.Name != "Balava" {
		t.Errorf("Karana = %+v, want 16 Balava", r.Karana)
	}
	if r.SunSign.Name != "Makara" || r.MoonSign.Name != "Mesha" {
		t.Errorf("signs = %s / %s", r.SunSign.Name, r.MoonSign.Name)
	}

	in := r.Inauspicious
	wantSpans := map[string]TimeSpan{
		"rahu":       {Start: "07:30:00", End: "09:00:00"},
		"yamagandam": {Start: "10:30:00", End: "12:00:00"},
		"gulikai":    {Start: "13:30:00", End: "15:00:00"},
	}
	gotSpans := map[string]TimeSpan{"rahu": in.RahuKalam, "yamagandam": in.Yamagandam, "gulikai": in.GulikaiKalam}
	for k, want := range wantSpans {
		if gotSpans[k] != want {
			t.Errorf("%s = %+v, want %+v", k, gotSpans[k], want)
		}
	}
	if in.Dhurmuhurtham.Muhurta != 17 || in.Dhurmuhurtham.Start != "12:24:00" || in.Dhurmuhurtham.End != "12:48:00" {
		t.Errorf("Dhurmuhurtham = %+v", in.Dhurmuhurtham)
	}
	if in.Dhurmuhurtham.DurationMinutes != 24 {
		t.Errorf("Dhurmuhurtham minutes = %v, want 24", in.Dhurmuhurtham.DurationMinutes)
	}

	if len(r.GowriPanchangam.Day) != 8 || len(r.GowriPanchangam.Night) != 8 {
		t.Errorf("gowri = %d day, %d night", len(r.GowriPanchangam.Day), len(r.GowriPanchangam.Night))
	}
	if last := r.GowriPanchangam.Night[7]; !last.NextDay || last.End != "06:00:00" {
		t.Errorf("last night period = %+v, want NextDay ending 06:00:00", last)
	}
	if len(r.NallaNeram) != 10 {
		t.Errorf("NallaNeram has %d entries, want 10", len(r.NallaNeram))
	}
	if len(r.Hora) != 24 || r.Hora[0].Name != "Moon" {
		t.Errorf("hora = %d entries starting %s", len(r.Hora), r.Hora[0].Name)
	}

	if r.NokkuNaal.Type != "Sama Nokku Naal" {
		t.Errorf("NokkuNaal = %s", r.NokkuNaal.Type)
	}
	if r.AmirthathiYoga.Name != "Kaaladanda" {
		t.Errorf("AmirthathiYoga = %s", r.AmirthathiYoga.Name)
	}
	if r.SpecialYoga.Type != Siddha {
		t.Errorf("SpecialYoga = %s", r.SpecialYoga.Type)
	}
	if r.Chandrashtamam.AffectedRasi != "Vrischika" || r.Chandrashtamam.AffectedNakshatra != "Poosam" {
		t.Errorf("Chandrashtamam = %+v", r.Chandrashtamam)
	}
}

func TestGenerateTransitions(t *testing.T) {
	eng := New(&fakeEphemeris{moonAtRise: 7})
	r, err := eng.Generate(context.Background(), chennaiRequest(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for kind, segs := range map[string][]Segment{
		"tithi":     r.Transitions.Tithi,
		"nakshatra": r.Transitions.Nakshatra,
		"yoga":      r.Transitions.Yoga,
	} {
		if len(segs) != 2 {
			t.Errorf("%s: %d segments, want 2", kind, len(segs))
			continue
		}
		if segs[0].StartTime != r.Sunrise {
			t.Errorf("%s starts %s, want sunrise %s", kind, segs[0].StartTime, r.Sunrise)
		}
		if segs[1].EndTime != r.NextSunrise {
			t.Errorf("%s ends %s, want next sunrise %s", kind, segs[1].EndTime, r.NextSunrise)
		}
		if segs[0].EndTime != segs[1].StartTime {
			t.Errorf("%s: gap %s -> %s", kind, segs[0].EndTime, segs[1].StartTime)
		}
	}

	// Elongation 92° reaches 96° after 4/13.2 of a day.
	want := r.Transitions.Tithi[0].Start.Add(4 / 13.2)
	if d := math.Abs(float64(r.Transitions.Tithi[0].End - want)); d > OneMinute+1e-9 {
		t.Errorf("tithi boundary off by %v days", d)
	}
}

func TestGenerateJSON(t *testing.T) {
	r, err := New(&fakeEphemeris{moonAtRise: 7}).Generate(context.Background(), chennaiRequest(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{
		"date", "location", "tamil_month", "rutu", "ayana", "weekday", "sunrise", "sunset",
		"tithi", "nakshatra", "yoga", "karana", "transitions", "sun_sign", "moon_sign",
		"inauspicious_timings", "gowri_panchangam", "nalla_neram", "hora",
		"nokku_naal", "amirthathi_yoga", "special_yoga", "chandrashtamam",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}
	if strings.Contains(string(m["transitions"]), "Start\"") {
		t.Error("transitions leak raw instants")
	}
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name string
		eph  *fakeEphemeris
	}{
		{"rise set failure", &fakeEphemeris{riseErr: boom}},
		{"position failure", &fakeEphemeris{posErr: boom}},
		{"inconsistent rise set", &fakeEphemeris{badOrder: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.eph).Generate(ctx, chennaiRequest(t))
			if r != nil {
				t.Error("expected no partial report")
			}
			if !errors.Is(err, ErrEphemeris) {
				t.Errorf("err = %v, want ErrEphemeris", err)
			}
		})
	}

	bad := Request{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Location: Location{Latitude: 91}}
	if _, err := New(&fakeEphemeris{}).Generate(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateCanceled(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, stop := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer stop()

	tests := []struct {
		name string
		ctx  context.Context
		eph  *fakeEphemeris
		want error
	}{
		{"canceled", canceled, &fakeEphemeris{}, context.Canceled},
		{"deadline exceeded", expired, &fakeEphemeris{}, context.DeadlineExceeded},
		{"canceled with a failing source", canceled, &fakeEphemeris{riseErr: errors.New("boom")}, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.eph).Generate(tt.ctx, chennaiRequest(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if errors.Is(err, ErrEphemeris) {
				t.Errorf("err = %v, should not be ErrEphemeris", err)
			}
		})
	}
}

func TestScanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Scanner{Positions: &fakeEphemeris{}, Clock: NewClock(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 5.5)}
	_, err := s.Scan(ctx, TithiAt, 2460325, 2460326)
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrEphemeris) {
		t.Errorf("err = %v, want context.Canceled without ErrEphemeris", err)
	}
}

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		lat, lon float64
		tz       float64
		wantErr  bool
	}{
		{"valid", "2024-01-15", 13.08, 80.27, 5.5, false},
		{"bad date", "15-01-2024", 0, 0, 0, true},
		{"year too early", "1899-12-31", 0, 0, 0, true},
		{"year too late", "2101-01-01", 0, 0, 0, true},
		{"latitude", "2024-01-15", -90.5, 0, 0, true},
		{"longitude", "2024-01-15", 0, 180.1, 0, true},
		{"timezone", "2024-01-15", 0, 0, 15, true},
		{"nan", "2024-01-15", math.NaN(), 0, 0, true},
		{"edges", "2100-12-31", 90, -180, -12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.date, tt.lat, tt.lon, tt.tz)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	req := Request{
		Date:     time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC),
		Location: Location{Latitude: 100, Longitude: 200},
		Timezone: 20,
	}
	err := req.Validate()
	for _, field := range []string{"year", "latitude", "longitude", "timezone"} {
		if err == nil || !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() = %v, want mention of %s", err, field)
		}
	}
}

func TestCivilDate(t *testing.T) {
	// 20:00 UTC on the 15th is already the 16th in India and still the 15th in Toronto.
	at := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		tz   float64
		want string
	}{
		{0, "2024-01-15"},
		{5.5, "2024-01-16"},
		{-5, "2024-01-15"},
		{3.5, "2024-01-15"},
		{4, "2024-01-16"},
	}
	for _, tt := range tests {
		if got := CivilDate(at, tt.tz); got != tt.want {
			t.Errorf("CivilDate(%v) = %s, want %s", tt.tz, got, tt.want)
		}
	}
}
