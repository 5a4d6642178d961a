package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginTop(1)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(16)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)

	classStyles = map[panchang.Class]lipgloss.Style{
		panchang.Auspicious:   lipgloss.NewStyle().Foreground(colorGreen),
		panchang.Inauspicious: lipgloss.NewStyle().Foreground(colorRed),
		panchang.Neutral:      lipgloss.NewStyle().Foreground(colorGray),
	}
)

// Terminal renders r for an interactive terminal. Colors degrade to plain
// text when the output is not a TTY.
func Terminal(r *panchang.Report) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Tamil Panchang for "+r.Date) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("%s, %s  %s",
		Latitude(r.Location.Latitude), Longitude(r.Location.Longitude), Offset(r.Location.Timezone))) + "\n")

	heading(&b, "Elements")
	kv(&b, "Weekday", r.Weekday.English+" / "+r.Weekday.Tamil)
	kv(&b, "Month", r.TamilMonth.Name)
	kv(&b, "Tithi", Element(r.Tithi))
	kv(&b, "Nakshatra", Element(r.Nakshatra))
	kv(&b, "Yoga", Element(r.Yoga))
	kv(&b, "Karana", Element(r.Karana))
	kv(&b, "Signs", fmt.Sprintf("Sun %s, Moon %s", r.SunSign.Name, r.MoonSign.Name))

	heading(&b, "Sun")
	kv(&b, "Sunrise", r.Sunrise)
	kv(&b, "Sunset", r.Sunset)
	kv(&b, "Next sunrise", r.NextSunrise)

	heading(&b, "Avoid")
	bad := classStyles[panchang.Inauspicious]
	kv(&b, "Rahu Kalam", bad.Render(Span(r.Inauspicious.RahuKalam)))
	kv(&b, "Yamagandam", bad.Render(Span(r.Inauspicious.Yamagandam)))
	kv(&b, "Gulikai Kalam", bad.Render(Span(r.Inauspicious.GulikaiKalam)))
	kv(&b, "Dhurmuhurtham", bad.Render(Span(r.Inauspicious.Dhurmuhurtham.TimeSpan)))

	heading(&b, "Gowri Panchangam")
	for _, p := range r.GowriPanchangam.Day {
		period(&b, "Day", p)
	}
	for _, p := range r.GowriPanchangam.Night {
		period(&b, "Night", p)
	}

	heading(&b, "Yogas")
	kv(&b, "Special", fmt.Sprintf("%s (%s)", r.SpecialYoga.Name, r.SpecialYoga.Severity))
	kv(&b, "Amirthathi", classStyles[r.AmirthathiYoga.Class].Render(r.AmirthathiYoga.Name))
	kv(&b, "Nokku Naal", r.NokkuNaal.Type)
	kv(&b, "Chandrashtamam", fmt.Sprintf("%s, %s", r.Chandrashtamam.AffectedRasi, r.Chandrashtamam.AffectedNakshatra))

	return b.String()
}

func heading(b *strings.Builder, title string) {
	b.WriteString(styleHeading.Render(title) + "\n")
}

func kv(b *strings.Builder, key, value string) {
	b.WriteString(styleKey.Render(key) + " " + styleValue.Render(value) + "\n")
}

func period(b *strings.Builder, half string, p panchang.PeriodSpan) {
	label := fmt.Sprintf("%s %d", half, p.Number)
	kv(b, label, classStyles[p.Class].Render(fmt.Sprintf("%-8s %s", p.Name, Span(p.TimeSpan))))
}
