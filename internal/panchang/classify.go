package panchang

import (
	"fmt"
	"time"
)

// =============================================================================
// Nokku Naal
// =============================================================================

// NokkuNaal tells which direction a nakshatra "looks" and what work suits it.
type NokkuNaal struct {
	Type     string `json:"type"`
	Meaning  string `json:"meaning"`
	Guidance string `json:"guidance"`
}

type nokku int

const (
	nokkuUnclassified nokku = iota
	nokkuUpward
	nokkuDownward
	nokkuForward
)

var nokkuDetails = map[nokku]NokkuNaal{
	nokkuUpward: {
		Type:     "Mel Nokku Naal",
		Meaning:  "Upward looking",
		Guidance: "Favourable for raising structures, roofing, planting trees, flag hoisting and coronations.",
	},
	nokkuDownward: {
		Type:     "Keezh Nokku Naal",
		Meaning:  "Downward looking",
		Guidance: "Favourable for digging wells, laying foundations, mining and storing grain.",
	},
	nokkuForward: {
		Type:     "Sama Nokku Naal",
		Meaning:  "Forward looking",
		Guidance: "Favourable for travel, buying vehicles, ploughing and laying roads.",
	},
	nokkuUnclassified: {
		Type:     "Unclassified",
		Meaning:  "Not in any Nokku Naal group",
		Guidance: "No directional guidance available.",
	},
}

var nokkuGroups = map[nokku][]string{
	nokkuUpward: {
		"Rohini", "Thiruvathirai", "Poosam", "Uthiram", "Uthiradam",
		"Thiruvonam", "Avittam", "Sadayam", "Uthirattathi",
	},
	nokkuDownward: {
		"Bharani", "Karthigai", "Ayilyam", "Makam", "Puram",
		"Visakam", "Moolam", "Pooradam", "Poorattathi",
	},
	nokkuForward: {
		"Aswini", "Mirugasiridam", "Punarpoosam", "Hastham", "Chithirai",
		"Swathi", "Anusham", "Kettai", "Revathi",
	},
}

var nokkuByName = func() map[string]nokku {
	m := make(map[string]nokku, len(Nakshatras))
	for group, names := range nokkuGroups {
		for _, name := range names {
			if _, dup := m[name]; dup {
				panic(fmt.Sprintf("panchang: nakshatra %q in two nokku groups", name))
			}
			m[name] = group
		}
	}
	return m
}()

// NokkuNaalOf classifies a nakshatra by name. Unknown names yield the
// unclassified result.
func NokkuNaalOf(nakshatra string) NokkuNaal {
	return nokkuDetails[nokkuByName[nakshatra]]
}

// =============================================================================
// Amirthathi Yoga
// =============================================================================

// AmirthathiYoga is the weekday-nakshatra yoga of the day.
type AmirthathiYoga struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Class  Class  `json:"class"`
}

var amirthathiYogas = [27]string{
	"Ananda", "Kaaladanda", "Dhumra", "Prajapati", "Soumya",
	"Dhwanksha", "Dhwaja", "Srivatsa", "Vajra", "Mudgara",
	"Chatra", "Mitra", "Manasa", "Padma", "Lumbaka",
	"Utpata", "Mrityu", "Kaana", "Siddhi", "Shubha",
	"Amrita", "Musala", "Gada", "Matanga", "Rakshasa",
	"Chara", "Sthira",
}

var (
	amirthathiGood = set(
		"Ananda", "Prajapati", "Soumya", "Dhwaja", "Srivatsa", "Chatra", "Mitra",
		"Manasa", "Padma", "Siddhi", "Shubha", "Amrita", "Matanga", "Sthira",
	)
	amirthathiBad = set(
		"Kaaladanda", "Dhumra", "Dhwanksha", "Vajra", "Mudgara", "Lumbaka",
		"Utpata", "Mrityu", "Kaana", "Musala", "Gada", "Rakshasa",
	)
)

// AmirthathiYogaOf returns the yoga for a weekday and 1-based nakshatra number.
func AmirthathiYogaOf(weekday time.Weekday, nakshatraNumber int) AmirthathiYoga {
	idx := (weekdayIndex(int(weekday), "amirthathi") + nakshatraNumber - 1) % len(amirthathiYogas)
	name := lookup(amirthathiYogas[:], idx, "amirthathi yoga")

	class := Neutral
	switch {
	case amirthathiGood[name]:
		class = Auspicious
	case amirthathiBad[name]:
		class = Inauspicious
	}
	return AmirthathiYoga{Number: idx + 1, Name: name, Class: class}
}

// =============================================================================
// Special Yoga
// =============================================================================

// SpecialYogaKind is one of Amrita, Siddha or Marana.
type SpecialYogaKind string

const (
	Amrita SpecialYogaKind = "Amrita"
	Siddha SpecialYogaKind = "Siddha"
	Marana SpecialYogaKind = "Marana"
)

// SpecialYoga is the weekday-nakshatra combination yoga with display details.
type SpecialYoga struct {
	Type        SpecialYogaKind `json:"type"`
	Name        string          `json:"name"`
	Severity    string          `json:"severity"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
}

var specialYogaDetails = map[SpecialYogaKind]SpecialYoga{
	Amrita: {
		Type:        Amrita,
		Name:        "Amirtha Yogam",
		Severity:    "Highly Auspicious",
		Description: "Excellent for all auspicious beginnings, ceremonies and important decisions.",
		Color:       "#2e7d32",
	},
	Siddha: {
		Type:        Siddha,
		Name:        "Siddha Yogam",
		Severity:    "Auspicious",
		Description: "Good for routine work and most undertakings.",
		Color:       "#1565c0",
	},
	Marana: {
		Type:        Marana,
		Name:        "Marana Yogam",
		Severity:    "Inauspicious",
		Description: "Avoid starting new ventures, travel and ceremonies.",
		Color:       "#c62828",
	},
}

// specialYogaGrid rows are weekdays (Sunday first); each character is the
// yoga for the nakshatra at that 0-based index: A=Amrita, S=Siddha, M=Marana.
var specialYogaGrid = [7]string{
	//Aswini ... Revathi
	"ASSSMSAASMSASASSAMASAMAMSSS",
	"SSSAASAMSSMSSSSMAAMSSASSMSS",
	"AMSSASSSAMSASMSSSSSSASSSMSS",
	"SSSAMSSSSSMSAMSSAASSMSSMSSS",
	"SSSSSSAASSMSSSSMSSSSSASSMSA",
	"AMSSSSSSSSMSSASSAMSSMSSAMSA",
	"SSSAMSSSSSMSSSAASSSSMSAMSSS",
}

var specialYogaKinds = map[byte]SpecialYogaKind{'A': Amrita, 'S': Siddha, 'M': Marana}

// SpecialYogaOf returns the special yoga for a weekday and 0-based nakshatra index.
func SpecialYogaOf(weekday time.Weekday, nakshatraIndex int) SpecialYoga {
	row := specialYogaGrid[weekdayIndex(int(weekday), "special yoga")]
	if nakshatraIndex < 0 || nakshatraIndex >= len(row) {
		panic(fmt.Sprintf("panchang: special yoga nakshatra index %d out of range [0,%d)", nakshatraIndex, len(row)))
	}
	kind, ok := specialYogaKinds[row[nakshatraIndex]]
	if !ok {
		panic(fmt.Sprintf("panchang: special yoga grid has unknown code %q", row[nakshatraIndex]))
	}
	return specialYogaDetails[kind]
}

// =============================================================================
// Chandrashtamam
// =============================================================================

// Chandrashtamam names the rasi and nakshatra eighth from the Moon's current ones.
type Chandrashtamam struct {
	MoonRasi          string `json:"moon_rasi"`
	MoonNakshatra     string `json:"moon_nakshatra"`
	AffectedRasi      string `json:"affected_rasi"`
	AffectedNakshatra string `json:"affected_nakshatra"`
	Description       string `json:"description"`
}

// eighthOffset counts the current position as the first.
const eighthOffset = 7

// ChandrashtamamOf resolves Chandrashtamam for the Moon's 0-based rasi and nakshatra indices.
func ChandrashtamamOf(rasiIndex, nakshatraIndex int) Chandrashtamam {
	c := Chandrashtamam{
		MoonRasi:          lookup(Rasis[:], rasiIndex, "rasi"),
		MoonNakshatra:     lookup(Nakshatras[:], nakshatraIndex, "nakshatra"),
		AffectedRasi:      lookup(Rasis[:], (rasiIndex+eighthOffset)%len(Rasis), "rasi"),
		AffectedNakshatra: lookup(Nakshatras[:], (nakshatraIndex+eighthOffset)%len(Nakshatras), "nakshatra"),
	}
	c.Description = fmt.Sprintf(
		"Moon transits %s rasi in %s nakshatra. Chandrashtamam for those born in %s rasi (%s nakshatra); avoid new beginnings and important decisions today.",
		c.MoonRasi, c.MoonNakshatra, c.AffectedRasi, c.AffectedNakshatra)
	return c
}

// =============================================================================
// Ayana and Rutu
// =============================================================================

// Ayana is the Sun's half-year course.
type Ayana string

const (
	Uttarayana   Ayana = "Uttarayana"
	Dakshinayana Ayana = "Dakshinayana"
)

// AyanaOf returns Uttarayana from sidereal Sun longitude 270° through 90°.
func AyanaOf(sun float64) Ayana {
	if sun >= 270 || sun < 90 {
		return Uttarayana
	}
	return Dakshinayana
}

// Rutu is one of the six two-month seasons.
type Rutu struct {
	Name    string `json:"name"`
	English string `json:"english"`
}

var (
	vasantha = Rutu{Name: "Vasantha Rutu", English: "Spring"}
	grishma  = Rutu{Name: "Grishma Rutu", English: "Summer"}
	varsha   = Rutu{Name: "Varsha Rutu", English: "Monsoon"}
	sharad   = Rutu{Name: "Sharad Rutu", English: "Autumn"}
	hemantha = Rutu{Name: "Hemantha Rutu", English: "Pre-winter"}
	shishira = Rutu{Name: "Shishira Rutu", English: "Winter"}
)

var rutuByMonth = map[string]Rutu{
	"Chithirai": vasantha, "Vaikasi": vasantha,
	"Aani": grishma, "Aadi": grishma,
	"Aavani": varsha, "Purattasi": varsha,
	"Aippasi": sharad, "Karthigai": sharad,
	"Margazhi": hemantha, "Thai": hemantha,
	"Maasi": shishira, "Panguni": shishira,
}

// RutuOf returns the season of a Tamil month name.
func RutuOf(month string) Rutu {
	r, ok := rutuByMonth[month]
	if !ok {
		panic(fmt.Sprintf("panchang: no rutu for month %q", month))
	}
	return r
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
