package panchang

import "fmt"

// Cycle name tables. Ordering is significant: every table is indexed by the
// 0-based ordinal computed from longitudes or weekday.

// TamilMonths are the twelve solar months, starting when the Sun enters Mesha.
var TamilMonths = [12]string{
	"Chithirai", "Vaikasi", "Aani", "Aadi", "Aavani", "Purattasi",
	"Aippasi", "Karthigai", "Margazhi", "Thai", "Maasi", "Panguni",
}

// Nakshatras are the 27 lunar mansions (Tamil names).
var Nakshatras = [27]string{
	"Aswini", "Bharani", "Karthigai", "Rohini", "Mirugasiridam",
	"Thiruvathirai", "Punarpoosam", "Poosam", "Ayilyam", "Makam",
	"Puram", "Uthiram", "Hastham", "Chithirai", "Swathi",
	"Visakam", "Anusham", "Kettai", "Moolam", "Pooradam",
	"Uthiradam", "Thiruvonam", "Avittam", "Sadayam", "Poorattathi",
	"Uthirattathi", "Revathi",
}

// Tithis are the fifteen lunar day names shared by both fortnights.
var Tithis = [15]string{
	"Prathama", "Dwithiya", "Thrithiya", "Chathurthi", "Panchami",
	"Shashthi", "Sapthami", "Ashtami", "Navami", "Dasami",
	"Ekadasi", "Dwadasi", "Trayodasi", "Chaturdasi", "Pournami/Amavasya",
}

// Yogas are the 27 Sun+Moon longitude classes.
var Yogas = [27]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana",
	"Atiganda", "Sukarman", "Dhriti", "Shoola", "Ganda",
	"Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyan", "Parigha", "Shiva",
	"Siddha", "Sadhya", "Shubha", "Shukla", "Brahma",
	"Indra", "Vaidhriti",
}

// Karanas lists the seven movable karanas followed by the four fixed ones.
var Karanas = [11]string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garaja",
	"Vanija", "Vishti", "Shakuni", "Chatushpada", "Naga", "Kimstughna",
}

// Rasis are the twelve 30° zodiac signs.
var Rasis = [12]string{
	"Mesha", "Vrishabha", "Mithuna", "Kataka", "Simha", "Kanya",
	"Tula", "Vrischika", "Dhanus", "Makara", "Kumbha", "Meena",
}

// WeekdaysTamil is Sunday-first.
var WeekdaysTamil = [7]string{
	"Gnayiru", "Thingal", "Sevvai", "Budhan", "Viyazhan", "Velli", "Sani",
}

// lookup returns table[i] and panics when i is outside the table.
// An out-of-range index can only come from a logic error upstream.
func lookup(table []string, i int, what string) string {
	if i < 0 || i >= len(table) {
		panic(fmt.Sprintf("panchang: %s index %d out of range [0,%d)", what, i, len(table)))
	}
	return table[i]
}

// weekdayIndex panics unless weekday is 0 (Sunday) through 6.
func weekdayIndex(weekday int, what string) int {
	if weekday < 0 || weekday > 6 {
		panic(fmt.Sprintf("panchang: %s weekday %d out of range [0,7)", what, weekday))
	}
	return weekday
}

// position returns the 1-based part number stored for weekday.
func position(table [7]int, weekday int, what string) int {
	return table[weekdayIndex(weekday, what)]
}
