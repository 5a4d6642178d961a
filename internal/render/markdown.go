// Package render turns a panchang report into human-readable text.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

const avoidNote = "*Avoid these periods for important activities, new ventures, or auspicious events:*"

// Markdown renders r as a Markdown document.
func Markdown(r *panchang.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tamil Panchang for %s\n\n", r.Date)
	fmt.Fprintf(&b, "**Location:** %s, %s\n", Latitude(r.Location.Latitude), Longitude(r.Location.Longitude))
	fmt.Fprintf(&b, "**Timezone:** %s\n\n", Offset(r.Location.Timezone))

	b.WriteString("## Panchang Elements\n\n")
	item(&b, "Weekday", fmt.Sprintf("%s (%s)", r.Weekday.English, r.Weekday.Tamil))
	item(&b, "Tithi", Element(r.Tithi))
	item(&b, "Nakshatra", Element(r.Nakshatra))
	item(&b, "Yoga", Element(r.Yoga))
	item(&b, "Karana", Element(r.Karana))
	item(&b, "Tamil Month", r.TamilMonth.Name)
	item(&b, "Rutu", fmt.Sprintf("%s (%s)", r.Rutu.Name, r.Rutu.English))
	item(&b, "Ayana", string(r.Ayana))
	item(&b, "Sun Sign", r.SunSign.Name)
	item(&b, "Moon Sign", r.MoonSign.Name)
	b.WriteString("\n")

	b.WriteString("## Sun Timings\n\n")
	item(&b, "Sunrise", r.Sunrise)
	item(&b, "Sunset", r.Sunset)
	item(&b, "Next Sunrise", r.NextSunrise)
	b.WriteString("\n")

	b.WriteString("## Inauspicious Timings\n\n")
	b.WriteString(avoidNote + "\n\n")
	in := r.Inauspicious
	item(&b, "Rahu Kalam", Span(in.RahuKalam))
	item(&b, "Yamagandam", Span(in.Yamagandam))
	item(&b, "Gulikai Kalam", Span(in.GulikaiKalam))
	item(&b, "Dhurmuhurtham", fmt.Sprintf("%s (muhurta %d, %g min)",
		Span(in.Dhurmuhurtham.TimeSpan), in.Dhurmuhurtham.Muhurta, in.Dhurmuhurtham.DurationMinutes))
	b.WriteString("\n")

	if len(r.NallaNeram) > 0 {
		b.WriteString("## Nalla Neram\n\n")
		for _, p := range r.NallaNeram {
			item(&b, p.Name, Span(p.TimeSpan))
		}
		b.WriteString("\n")
	}

	transitions(&b, "Tithi", r.Transitions.Tithi)
	transitions(&b, "Nakshatra", r.Transitions.Nakshatra)
	transitions(&b, "Yoga", r.Transitions.Yoga)

	b.WriteString("## Special Yoga\n\n")
	sy := r.SpecialYoga
	fmt.Fprintf(&b, "- **%s** (%s): %s\n", sy.Name, sy.Severity, sy.Description)
	item(&b, "Amirthathi Yoga", fmt.Sprintf("%s (%s)", r.AmirthathiYoga.Name, r.AmirthathiYoga.Class))
	item(&b, "Nokku Naal", fmt.Sprintf("%s: %s", r.NokkuNaal.Type, r.NokkuNaal.Guidance))
	b.WriteString("\n")

	b.WriteString("## Chandrashtamam\n\n")
	c := r.Chandrashtamam
	item(&b, "Moon", fmt.Sprintf("%s, %s", c.MoonRasi, c.MoonNakshatra))
	item(&b, "Affected", fmt.Sprintf("%s, %s", c.AffectedRasi, c.AffectedNakshatra))
	b.WriteString("\n" + c.Description + "\n")

	if len(r.Hora) > 0 {
		b.WriteString("\n## Hora\n\n")
		b.WriteString("| # | Ruler | Start | End |\n")
		b.WriteString("|---|-------|-------|-----|\n")
		for _, h := range r.Hora {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", h.Number, h.Name, h.Start, h.End)
		}
	}

	return b.String()
}

func item(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}

func transitions(b *strings.Builder, title string, segs []panchang.Segment) {
	if len(segs) < 2 {
		return
	}
	fmt.Fprintf(b, "## %s Changes\n\n", title)
	for _, s := range segs {
		fmt.Fprintf(b, "- %s: %s to %s\n", segmentName(s), s.StartTime, s.EndTime)
	}
	b.WriteString("\n")
}

func segmentName(s panchang.Segment) string {
	if s.Paksha != "" {
		return fmt.Sprintf("%s (%s)", s.Name, s.Paksha)
	}
	return s.Name
}

// Element formats a cycle value as "Name (Paksha), 42.5% remaining".
func Element(e panchang.Element) string {
	name := e.Name
	if e.Paksha != "" {
		name = fmt.Sprintf("%s (%s)", e.Name, e.Paksha)
	}
	return fmt.Sprintf("%s, %g%% remaining", name, e.Remaining)
}

// Span formats a rendered window.
func Span(s panchang.TimeSpan) string {
	if s.NextDay {
		return fmt.Sprintf("%s - %s (next day)", s.Start, s.End)
	}
	return fmt.Sprintf("%s - %s", s.Start, s.End)
}

// Latitude formats degrees with a hemisphere letter.
func Latitude(deg float64) string { return hemisphere(deg, "N", "S") }

// Longitude formats degrees with a hemisphere letter.
func Longitude(deg float64) string { return hemisphere(deg, "E", "W") }

func hemisphere(deg float64, pos, neg string) string {
	if deg < 0 {
		return fmt.Sprintf("%.4f°%s", -deg, neg)
	}
	return fmt.Sprintf("%.4f°%s", deg, pos)
}

// Offset formats an hour offset as "UTC+05:30".
func Offset(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	minutes := int(math.Round(math.Abs(hours) * 60))
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}
