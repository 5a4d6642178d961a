package panchang

import (
	"math"
	"testing"
	"time"
)

// twelveHourDay has sunrise at 0, sunset at half a day and the next sunrise
// one day later, so every part is an exact binary fraction.
func twelveHourDay(wd time.Weekday) Day {
	return Day{Sunrise: 0, Sunset: 0.5, NextSunrise: 1, Weekday: wd}
}

func approxEqual(a, b Instant) bool {
	return math.Abs(float64(a-b)) < 1e-12
}

func TestRahuKalamSunday(t *testing.T) {
	w := twelveHourDay(time.Sunday).RahuKalam()
	if w.Start != 0.4375 || w.End != 0.5 {
		t.Errorf("RahuKalam = [%v, %v], want [0.4375, 0.5]", w.Start, w.End)
	}
	if w.NextDay {
		t.Error("RahuKalam.NextDay = true, want false")
	}
}

func TestSingleWindowPeriods(t *testing.T) {
	tests := []struct {
		name       string
		weekday    time.Weekday
		get        func(Day) Window
		start, end Instant
	}{
		{"rahu monday", time.Monday, Day.RahuKalam, 0.0625, 0.125},
		{"rahu saturday", time.Saturday, Day.RahuKalam, 0.125, 0.1875},
		{"yamagandam sunday", time.Sunday, Day.Yamagandam, 0.25, 0.3125},
		{"yamagandam thursday", time.Thursday, Day.Yamagandam, 0, 0.0625},
		{"gulikai sunday", time.Sunday, Day.GulikaiKalam, 0.375, 0.4375},
		{"gulikai saturday", time.Saturday, Day.GulikaiKalam, 0, 0.0625},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.get(twelveHourDay(tt.weekday))
			if w.Start != tt.start || w.End != tt.end {
				t.Errorf("window = [%v, %v], want [%v, %v]", w.Start, w.End, tt.start, tt.end)
			}
		})
	}
}

func TestDhurmuhurtham(t *testing.T) {
	m := twelveHourDay(time.Sunday).Dhurmuhurtham()
	if m.Index != 27 {
		t.Errorf("Index = %d, want 27", m.Index)
	}
	part := Instant(0.5 / 30)
	if !approxEqual(m.Start, 26*part) || !approxEqual(m.End, 27*part) {
		t.Errorf("window = [%v, %v], want [%v, %v]", m.Start, m.End, 26*part, 27*part)
	}
	if got := round2(m.Minutes()); got != 24 {
		t.Errorf("Minutes = %v, want 24", got)
	}
}

func TestDivideMarksNextDay(t *testing.T) {
	d := twelveHourDay(time.Sunday)
	night := d.Divide(d.Sunset, d.NextSunrise, 8)
	for i, w := range night[:7] {
		if w.NextDay {
			t.Errorf("night[%d].NextDay = true, want false", i)
		}
	}
	if !night[7].NextDay {
		t.Error("last night part ends at next sunrise, want NextDay")
	}
	if night[0].Start != d.Sunset || night[7].End != d.NextSunrise {
		t.Errorf("night spans [%v, %v], want [%v, %v]", night[0].Start, night[7].End, d.Sunset, d.NextSunrise)
	}
}

func TestGowriPanchangam(t *testing.T) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day, night := twelveHourDay(wd).GowriPanchangam()
		if len(day) != 8 || len(night) != 8 {
			t.Fatalf("%v: got %d day and %d night periods, want 8 and 8", wd, len(day), len(night))
		}
		for _, list := range [][]NamedPeriod{day, night} {
			seen := make(map[string]bool)
			for i, p := range list {
				if p.Number != i+1 {
					t.Errorf("%v: period %d numbered %d", wd, i, p.Number)
				}
				seen[p.Name] = true
			}
			if len(seen) != 8 {
				t.Errorf("%v: %d distinct names, want a permutation of 8", wd, len(seen))
			}
		}
		if got := len(NallaNeram(day, night)); got != 10 {
			t.Errorf("%v: NallaNeram has %d periods, want 10", wd, got)
		}
	}

	day, night := twelveHourDay(time.Sunday).GowriPanchangam()
	if day[0].Name != gowriUthi || day[0].Class != Auspicious {
		t.Errorf("sunday day[0] = %s %s, want Uthi auspicious", day[0].Name, day[0].Class)
	}
	if night[6].Name != gowriRogam || night[6].Class != Inauspicious {
		t.Errorf("sunday night[6] = %s %s, want Rogam inauspicious", night[6].Name, night[6].Class)
	}
}

func TestNallaNeramKeepsOrder(t *testing.T) {
	day, night := twelveHourDay(time.Tuesday).GowriPanchangam()
	good := NallaNeram(day, night)
	for i := 1; i < len(good); i++ {
		if good[i].Start < good[i-1].Start {
			t.Fatalf("NallaNeram out of order at %d", i)
		}
	}
	for _, p := range good {
		if p.Class != Auspicious {
			t.Errorf("NallaNeram includes %s (%s)", p.Name, p.Class)
		}
	}
}

func TestHoras(t *testing.T) {
	first := map[time.Weekday]string{
		time.Sunday:    "Sun",
		time.Monday:    "Moon",
		time.Tuesday:   "Mars",
		time.Wednesday: "Mercury",
		time.Thursday:  "Jupiter",
		time.Friday:    "Venus",
		time.Saturday:  "Saturn",
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		horas := twelveHourDay(wd).Horas()
		if len(horas) != 24 {
			t.Fatalf("%v: %d horas, want 24", wd, len(horas))
		}
		if horas[0].Name != first[wd] {
			t.Errorf("%v: first hora = %s, want %s", wd, horas[0].Name, first[wd])
		}
		// The 25th hora would open the next weekday.
		next := chaldean[(horaRulers[wd]+24)%len(chaldean)]
		if want := first[(wd+1)%7]; next != want {
			t.Errorf("%v: cycle continues into %s, want %s", wd, next, want)
		}
		for i, h := range horas {
			if h.Number != i+1 {
				t.Errorf("%v: hora %d numbered %d", wd, i, h.Number)
			}
		}
		if horas[12].Start != 0.5 {
			t.Errorf("%v: night horas start at %v, want sunset", wd, horas[12].Start)
		}
	}

	sunday := twelveHourDay(time.Sunday).Horas()
	if sunday[1].Name != "Venus" || sunday[12].Name != "Jupiter" {
		t.Errorf("sunday horas 2 and 13 = %s, %s, want Venus, Jupiter", sunday[1].Name, sunday[12].Name)
	}
}

func TestDivisionPanicsOnBadWeekday(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for weekday 7")
		}
	}()
	twelveHourDay(time.Weekday(7)).RahuKalam()
}
