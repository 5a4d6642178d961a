package panchang

import (
	"fmt"
	"time"
)

// Weekday position tables, Sunday first. Each value is the 1-based part of
// the divided daylight that carries the named period.
var (
	rahuKalamParts    = [7]int{8, 2, 7, 5, 6, 4, 3}
	yamagandamParts   = [7]int{5, 4, 3, 2, 1, 7, 6}
	gulikaiKalamParts = [7]int{7, 6, 5, 4, 3, 2, 1}

	// Dhurmuhurtham is counted in thirtieths of daylight.
	dhurmuhurthamParts = [7]int{27, 17, 7, 15, 11, 7, 1}
)

// Gowri Panchangam period names.
const (
	gowriUthi    = "Uthi"
	gowriAmirdha = "Amirdha"
	gowriRogam   = "Rogam"
	gowriLaabam  = "Laabam"
	gowriDhanam  = "Dhanam"
	gowriSugam   = "Sugam"
	gowriSoram   = "Soram"
	gowriVisham  = "Visham"
)

// gowriDay and gowriNight give the order of the eight Gowri periods for
// each weekday, Sunday first.
var (
	gowriDay = [7][8]string{
		{gowriUthi, gowriAmirdha, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriVisham},
		{gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriUthi},
		{gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriUthi, gowriVisham, gowriAmirdha},
		{gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriVisham, gowriUthi, gowriAmirdha, gowriRogam},
		{gowriDhanam, gowriSugam, gowriSoram, gowriUthi, gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam},
		{gowriSugam, gowriSoram, gowriUthi, gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam, gowriDhanam},
		{gowriSoram, gowriUthi, gowriVisham, gowriAmirdha, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam},
	}
	gowriNight = [7][8]string{
		{gowriDhanam, gowriSugam, gowriSoram, gowriUthi, gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam},
		{gowriSugam, gowriSoram, gowriUthi, gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam, gowriDhanam},
		{gowriSoram, gowriUthi, gowriVisham, gowriAmirdha, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam},
		{gowriUthi, gowriAmirdha, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriVisham},
		{gowriAmirdha, gowriVisham, gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriUthi},
		{gowriRogam, gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriUthi, gowriVisham, gowriAmirdha},
		{gowriLaabam, gowriDhanam, gowriSugam, gowriSoram, gowriVisham, gowriUthi, gowriAmirdha, gowriRogam},
	}

	gowriClasses = map[string]Class{
		gowriUthi:    Auspicious,
		gowriAmirdha: Auspicious,
		gowriLaabam:  Auspicious,
		gowriDhanam:  Auspicious,
		gowriSugam:   Auspicious,
		gowriRogam:   Inauspicious,
		gowriSoram:   Inauspicious,
		gowriVisham:  Inauspicious,
	}
)

// chaldean is the planetary hour sequence.
var chaldean = [7]string{"Saturn", "Jupiter", "Mars", "Sun", "Venus", "Mercury", "Moon"}

// horaRulers is the index into chaldean of each weekday's ruling planet, Sunday first.
var horaRulers = [7]int{3, 6, 2, 5, 1, 4, 0}

var horaClasses = map[string]Class{
	"Jupiter": Auspicious,
	"Venus":   Auspicious,
	"Mercury": Auspicious,
	"Moon":    Auspicious,
	"Sun":     Inauspicious,
	"Mars":    Inauspicious,
	"Saturn":  Inauspicious,
}

// Class is the auspiciousness of a period or yoga.
type Class string

const (
	Auspicious   Class = "auspicious"
	Inauspicious Class = "inauspicious"
	Neutral      Class = "neutral"
)

// NamedPeriod is a window carrying a name and class. Number is 1-based
// within the list it was produced in.
type NamedPeriod struct {
	Window
	Number int
	Name   string
	Class  Class
}

// Muhurta is a Dhurmuhurtham window with its position among thirty parts.
type Muhurta struct {
	Window
	Index int
}

// Day is one Tamil day, sunrise to next sunrise.
type Day struct {
	Sunrise     Instant
	Sunset      Instant
	NextSunrise Instant
	Weekday     time.Weekday
}

// Divide splits [start, end) into n equal windows.
func (d Day) Divide(start, end Instant, n int) []Window {
	part := float64(end-start) / float64(n)
	windows := make([]Window, n)
	for k := 1; k <= n; k++ {
		w := Window{
			Start: start.Add(float64(k-1) * part),
			End:   start.Add(float64(k) * part),
		}
		w.NextDay = w.End >= d.Sunrise.Add(1)
		windows[k-1] = w
	}
	return windows
}

func (d Day) daylightPart(n, k int) Window {
	return d.Divide(d.Sunrise, d.Sunset, n)[k-1]
}

func (d Day) weekday() int {
	return int(d.Weekday)
}

// RahuKalam returns the Rahu Kalam window.
func (d Day) RahuKalam() Window {
	return d.daylightPart(8, position(rahuKalamParts, d.weekday(), "rahu kalam"))
}

// Yamagandam returns the Yamagandam window.
func (d Day) Yamagandam() Window {
	return d.daylightPart(8, position(yamagandamParts, d.weekday(), "yamagandam"))
}

// GulikaiKalam returns the Gulikai Kalam window.
func (d Day) GulikaiKalam() Window {
	return d.daylightPart(8, position(gulikaiKalamParts, d.weekday(), "gulikai kalam"))
}

// Dhurmuhurtham returns the Dhurmuhurtham window among thirty parts of daylight.
func (d Day) Dhurmuhurtham() Muhurta {
	idx := position(dhurmuhurthamParts, d.weekday(), "dhurmuhurtham")
	return Muhurta{Window: d.daylightPart(30, idx), Index: idx}
}

// GowriPanchangam returns the eight day and eight night Gowri periods.
func (d Day) GowriPanchangam() (day, night []NamedPeriod) {
	wd := weekdayIndex(d.weekday(), "gowri")
	day = gowriPeriods(d.Divide(d.Sunrise, d.Sunset, 8), gowriDay[wd])
	night = gowriPeriods(d.Divide(d.Sunset, d.NextSunrise, 8), gowriNight[wd])
	return day, night
}

func gowriPeriods(windows []Window, names [8]string) []NamedPeriod {
	periods := make([]NamedPeriod, len(windows))
	for i, w := range windows {
		periods[i] = NamedPeriod{
			Window: w,
			Number: i + 1,
			Name:   names[i],
			Class:  classify(gowriClasses, names[i], "gowri"),
		}
	}
	return periods
}

// NallaNeram filters the auspicious periods, keeping order.
func NallaNeram(periods ...[]NamedPeriod) []NamedPeriod {
	var good []NamedPeriod
	for _, list := range periods {
		for _, p := range list {
			if p.Class == Auspicious {
				good = append(good, p)
			}
		}
	}
	return good
}

// Horas returns the 24 planetary hours, 12 of daylight then 12 of night.
func (d Day) Horas() []NamedPeriod {
	first := horaRulers[weekdayIndex(d.weekday(), "hora")]
	windows := append(d.Divide(d.Sunrise, d.Sunset, 12), d.Divide(d.Sunset, d.NextSunrise, 12)...)

	horas := make([]NamedPeriod, len(windows))
	for i, w := range windows {
		planet := chaldean[(first+i)%len(chaldean)]
		horas[i] = NamedPeriod{
			Window: w,
			Number: i + 1,
			Name:   planet,
			Class:  classify(horaClasses, planet, "hora"),
		}
	}
	return horas
}

func classify(classes map[string]Class, name, what string) Class {
	c, ok := classes[name]
	if !ok {
		panic(fmt.Sprintf("panchang: %s %q has no class", what, name))
	}
	return c
}
