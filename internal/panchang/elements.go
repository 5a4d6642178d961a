package panchang

import "math"

// Longitudes holds sidereal (Lahiri) ecliptic longitudes in degrees, [0,360).
type Longitudes struct {
	Sun  float64
	Moon float64
}

// Paksha is the lunar fortnight.
type Paksha string

const (
	Shukla  Paksha = "Shukla Paksha"
	Krishna Paksha = "Krishna Paksha"
)

// Element is one value of an angular cycle (tithi, nakshatra, yoga or karana)
// at a single instant. Number is 1-based within its cycle; Remaining is the
// percentage of the current unit still to run.
type Element struct {
	Number    int     `json:"number"`
	Name      string  `json:"name"`
	Paksha    Paksha  `json:"paksha,omitempty"`
	Remaining float64 `json:"remaining"`
}

// Calculator derives one element kind from a pair of longitudes.
type Calculator func(Longitudes) Element

// Month is a solar month.
type Month struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Rasi is the zodiac sign occupied by a body.
type Rasi struct {
	Longitude float64 `json:"longitude"`
	Index     int     `json:"index"`
	Name      string  `json:"rasi"`
}

const (
	tithiSpan     = 12.0
	karanaSpan    = 6.0
	mansionsPer   = 27.0
	degreesCircle = 360.0
)

// Normalize reduces deg to [0,360).
func Normalize(deg float64) float64 {
	r := math.Mod(deg, degreesCircle)
	if r < 0 {
		r += degreesCircle
	}
	// A tiny negative input rounds up to exactly 360 after the addition.
	if r >= degreesCircle {
		r = 0
	}
	return r
}

// round2 rounds x to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// elongation is the Moon's angular distance ahead of the Sun.
func elongation(l Longitudes) float64 {
	return Normalize(l.Moon - l.Sun)
}

// TithiAt returns the lunar day for l.
func TithiAt(l Longitudes) Element {
	diff := elongation(l)
	num := int(diff / tithiSpan)
	paksha := Shukla
	if num >= 15 {
		paksha = Krishna
	}
	return Element{
		Number:    num + 1,
		Name:      lookup(Tithis[:], num%15, "tithi"),
		Paksha:    paksha,
		Remaining: round2((1 - math.Mod(diff, tithiSpan)/tithiSpan) * 100),
	}
}

// NakshatraAt returns the lunar mansion of the Moon.
func NakshatraAt(l Longitudes) Element {
	pos := l.Moon * mansionsPer / degreesCircle
	num := int(pos)
	return Element{
		Number:    num + 1,
		Name:      lookup(Nakshatras[:], num, "nakshatra"),
		Remaining: round2((1 - math.Mod(pos, 1)) * 100),
	}
}

// YogaAt returns the yoga formed by the sum of both longitudes.
func YogaAt(l Longitudes) Element {
	pos := Normalize(l.Sun+l.Moon) * mansionsPer / degreesCircle
	num := int(pos)
	return Element{
		Number:    num + 1,
		Name:      lookup(Yogas[:], num, "yoga"),
		Remaining: round2((1 - math.Mod(pos, 1)) * 100),
	}
}

// KaranaAt returns the half-tithi. The last three half-tithis of the month
// take fixed karanas; all others cycle through the seven movable ones.
func KaranaAt(l Longitudes) Element {
	diff := elongation(l)
	num := int(diff / karanaSpan)
	slot := num % 7
	if num >= 57 {
		slot = 7 + (num - 57)
	}
	slot = min(slot, 10)
	return Element{
		Number:    num + 1,
		Name:      lookup(Karanas[:], slot, "karana"),
		Remaining: round2((1 - math.Mod(diff, karanaSpan)/karanaSpan) * 100),
	}
}

// SolarMonthOf returns the Tamil solar month for a sidereal Sun longitude.
func SolarMonthOf(sun float64) Month {
	num := int(sun / 30)
	return Month{Number: num + 1, Name: lookup(TamilMonths[:], num, "month")}
}

// RasiOf returns the sign containing lon.
func RasiOf(lon float64) Rasi {
	idx := int(lon / 30)
	return Rasi{
		Longitude: round2(lon),
		Index:     idx,
		Name:      lookup(Rasis[:], idx, "rasi"),
	}
}
