package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var chennai = panchang.Location{Latitude: 13.0827, Longitude: 80.2707}

func TestPositionsJ2000(t *testing.T) {
	m := New()
	at := panchang.InstantOf(time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC))

	l, err := m.Positions(context.Background(), at)
	require.NoError(t, err)

	// Tropical apparent Sun is about 280.37°; Lahiri is about 23.85°.
	assert.InDelta(t, 256.52, l.Sun, 0.1)
	assert.Equal(t, "Margazhi", panchang.SolarMonthOf(l.Sun).Name)
	assert.GreaterOrEqual(t, l.Moon, 0.0)
	assert.Less(t, l.Moon, 360.0)
}

func TestPositionsMoonMotion(t *testing.T) {
	m := New()
	ctx := context.Background()
	at := panchang.InstantOf(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))

	a, err := m.Positions(ctx, at)
	require.NoError(t, err)
	b, err := m.Positions(ctx, at.Add(1))
	require.NoError(t, err)

	moved := panchang.Normalize(b.Moon - a.Moon)
	assert.InDelta(t, 13.2, moved, 1.5, "moon moves 12-15° a day")
	sunMoved := panchang.Normalize(b.Sun - a.Sun)
	assert.InDelta(t, 1.0, sunMoved, 0.05)
}

func TestPositionsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Positions(ctx, panchang.InstantOf(time.Now()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSunRiseSetChennai(t *testing.T) {
	m := New()
	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	clock := panchang.NewClock(date, 5.5)

	rise, set, err := m.SunRiseSet(context.Background(), clock.At(6, 0), chennai)
	require.NoError(t, err)
	require.Less(t, rise, set)

	r := clock.Local(rise)
	s := clock.Local(set)
	assert.Equal(t, 15, r.Day())
	assert.Equal(t, 6, r.Hour(), "sunrise %s", r)
	assert.InDelta(t, 33, r.Minute(), 10, "sunrise %s", r)
	assert.Equal(t, 18, s.Hour(), "sunset %s", s)
	assert.InDelta(t, 10, s.Minute(), 10, "sunset %s", s)
}

func TestSunRiseSetNextDay(t *testing.T) {
	m := New()
	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	approx := panchang.NewClock(date, 5.5).At(6, 0)

	today, _, err := m.SunRiseSet(context.Background(), approx, chennai)
	require.NoError(t, err)
	tomorrow, _, err := m.SunRiseSet(context.Background(), approx.Add(1), chennai)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, float64(tomorrow-today), 2.0/1440)
}

func TestSunRiseSetPolarNight(t *testing.T) {
	date := time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC)
	approx := panchang.NewClock(date, 0).At(6, 0)

	_, _, err := New().SunRiseSet(context.Background(), approx, panchang.Location{Latitude: 85, Longitude: 0})
	require.ErrorIs(t, err, ErrNoSunrise)
}

func TestLahiri(t *testing.T) {
	assert.InDelta(t, 23.853, Lahiri(2451545.0), 0.001)
	// Roughly 50.3 arcseconds a year.
	assert.InDelta(t, 24.19, Lahiri(2451545.0+24*365.25), 0.01)
}

func TestDeltaT(t *testing.T) {
	tests := []struct {
		year  float64
		want  float64
		delta float64
	}{
		{1900, -2.79, 0.01},
		{1950, 29.07, 0.01},
		{2000, 63.86, 0.01},
		{2020, 71.6, 2},
		{2100, 202, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DeltaT(tt.year), tt.delta, "year %v", tt.year)
	}
}
