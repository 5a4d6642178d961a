package panchang

import (
	"fmt"
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
)

// Instant is a Julian day number in Universal Time.
// Adding fractional days moves it along the time axis.
type Instant float64

// minutesPerDay is the number of one-minute scan steps in a day.
const minutesPerDay = 1440

// OneMinute and OneSecond are day fractions used for scanning and refinement.
const (
	OneMinute = 1.0 / minutesPerDay
	OneSecond = 1.0 / (minutesPerDay * 60)
)

// InstantOf converts t to an Instant.
func InstantOf(t time.Time) Instant {
	return Instant(julian.TimeToJD(t.UTC()))
}

// Add returns i shifted by days.
func (i Instant) Add(days float64) Instant {
	return i + Instant(days)
}

// Time returns the UTC time for i, rounded to the nearest second.
func (i Instant) Time() time.Time {
	return julian.JDToTime(float64(i)).UTC().Round(time.Second)
}

// Window is a half-open span [Start, End) on the time axis.
// NextDay is set when End is at or past one full day after the governing sunrise.
type Window struct {
	Start   Instant
	End     Instant
	NextDay bool
}

// Minutes returns the span length in minutes.
func (w Window) Minutes() float64 {
	return float64(w.End-w.Start) * minutesPerDay
}

// Clock renders instants as local wall-clock strings for one civil date
// at a fixed UTC offset.
type Clock struct {
	date time.Time // civil date, midnight in zone
	zone *time.Location
}

// NewClock returns a Clock for the civil date of date and an offset in hours east of UTC.
func NewClock(date time.Time, offsetHours float64) Clock {
	secs := int(math.Round(offsetHours * 3600))
	zone := time.FixedZone(zoneName(secs), secs)
	y, m, d := date.Date()
	return Clock{
		date: time.Date(y, m, d, 0, 0, 0, 0, zone),
		zone: zone,
	}
}

func zoneName(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, secs/3600, (secs%3600)/60)
}

// At returns the Instant of the given local wall-clock time on the clock's date.
func (c Clock) At(hour, min int) Instant {
	return InstantOf(c.date.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute))
}

// Local returns i as a time in the clock's zone.
func (c Clock) Local(i Instant) time.Time {
	return i.Time().In(c.zone)
}

// TimeOfDay formats i as HH:MM:SS local time.
func (c Clock) TimeOfDay(i Instant) string {
	return c.Local(i).Format("15:04:05")
}

// Stamp formats i as HH:MM:SS and appends the local date when it is not
// the clock's civil date.
func (c Clock) Stamp(i Instant) string {
	t := c.Local(i)
	if sameDate(t, c.date) {
		return t.Format("15:04:05")
	}
	return t.Format("15:04:05 (2006-01-02)")
}

// Span converts w to its string form.
func (c Clock) Span(w Window) TimeSpan {
	return TimeSpan{
		Start:   c.TimeOfDay(w.Start),
		End:     c.TimeOfDay(w.End),
		NextDay: w.NextDay,
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
