package panchang

import (
	"testing"
	"time"
)

func TestNokkuNaalCoversAllNakshatras(t *testing.T) {
	counts := make(map[string]int)
	for _, name := range Nakshatras {
		n := NokkuNaalOf(name)
		if n.Type == "Unclassified" {
			t.Errorf("%s is unclassified", name)
		}
		counts[n.Type]++
	}
	for typ, n := range counts {
		if n != 9 {
			t.Errorf("%s has %d nakshatras, want 9", typ, n)
		}
	}
}

func TestNokkuNaalOf(t *testing.T) {
	tests := []struct {
		nakshatra string
		want      string
	}{
		{"Rohini", "Mel Nokku Naal"},
		{"Bharani", "Keezh Nokku Naal"},
		{"Aswini", "Sama Nokku Naal"},
		{"Pluto", "Unclassified"},
	}
	for _, tt := range tests {
		if got := NokkuNaalOf(tt.nakshatra).Type; got != tt.want {
			t.Errorf("NokkuNaalOf(%q) = %q, want %q", tt.nakshatra, got, tt.want)
		}
	}
}

func TestAmirthathiYogaOf(t *testing.T) {
	tests := []struct {
		weekday   time.Weekday
		nakshatra int
		number    int
		name      string
		class     Class
	}{
		{time.Sunday, 1, 1, "Ananda", Auspicious},
		{time.Monday, 1, 2, "Kaaladanda", Inauspicious},
		{time.Saturday, 27, 6, "Dhwanksha", Inauspicious},
		{time.Sunday, 26, 26, "Chara", Neutral},
		{time.Wednesday, 24, 27, "Sthira", Auspicious},
	}
	for _, tt := range tests {
		got := AmirthathiYogaOf(tt.weekday, tt.nakshatra)
		if got.Number != tt.number || got.Name != tt.name || got.Class != tt.class {
			t.Errorf("AmirthathiYogaOf(%v, %d) = %+v, want %d %s %s",
				tt.weekday, tt.nakshatra, got, tt.number, tt.name, tt.class)
		}
	}
}

func TestAmirthathiClassesAreDisjoint(t *testing.T) {
	for _, name := range amirthathiYogas {
		good, bad := amirthathiGood[name], amirthathiBad[name]
		if good && bad {
			t.Errorf("%s is both auspicious and inauspicious", name)
		}
		if !good && !bad && name != "Chara" {
			t.Errorf("%s has no class", name)
		}
	}
}

func TestSpecialYogaGrid(t *testing.T) {
	for wd, row := range specialYogaGrid {
		if len(row) != len(Nakshatras) {
			t.Fatalf("row %d has %d entries, want %d", wd, len(row), len(Nakshatras))
		}
		for i := range row {
			// Panics on an unknown code.
			SpecialYogaOf(time.Weekday(wd), i)
		}
	}

	tests := []struct {
		weekday   time.Weekday
		nakshatra int
		want      SpecialYogaKind
	}{
		{time.Sunday, 0, Amrita},
		{time.Sunday, 1, Siddha},
		{time.Sunday, 4, Marana},
		{time.Monday, 3, Amrita},
	}
	for _, tt := range tests {
		got := SpecialYogaOf(tt.weekday, tt.nakshatra)
		if got.Type != tt.want {
			t.Errorf("SpecialYogaOf(%v, %d) = %s, want %s", tt.weekday, tt.nakshatra, got.Type, tt.want)
		}
		if got.Color == "" || got.Name == "" {
			t.Errorf("SpecialYogaOf(%v, %d) missing display details", tt.weekday, tt.nakshatra)
		}
	}
}

func TestSpecialYogaPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nakshatra index 27")
		}
	}()
	SpecialYogaOf(time.Sunday, 27)
}

func TestChandrashtamamOf(t *testing.T) {
	got := ChandrashtamamOf(0, 0)
	if got.MoonRasi != "Mesha" || got.AffectedRasi != "Vrischika" {
		t.Errorf("rasi = %s -> %s, want Mesha -> Vrischika", got.MoonRasi, got.AffectedRasi)
	}
	if got.MoonNakshatra != "Aswini" || got.AffectedNakshatra != "Poosam" {
		t.Errorf("nakshatra = %s -> %s, want Aswini -> Poosam", got.MoonNakshatra, got.AffectedNakshatra)
	}
	if got.Description == "" {
		t.Error("Description is empty")
	}

	wrap := ChandrashtamamOf(11, 26)
	if wrap.AffectedRasi != "Tula" || wrap.AffectedNakshatra != "Punarpoosam" {
		t.Errorf("wrap = %s %s, want Tula Punarpoosam", wrap.AffectedRasi, wrap.AffectedNakshatra)
	}
}

func TestAyanaOf(t *testing.T) {
	tests := []struct {
		sun  float64
		want Ayana
	}{
		{269.999, Dakshinayana},
		{270.0, Uttarayana},
		{359.9, Uttarayana},
		{0, Uttarayana},
		{89.999, Uttarayana},
		{90.0, Dakshinayana},
		{180, Dakshinayana},
	}
	for _, tt := range tests {
		if got := AyanaOf(tt.sun); got != tt.want {
			t.Errorf("AyanaOf(%v) = %s, want %s", tt.sun, got, tt.want)
		}
	}
}

func TestRutuOf(t *testing.T) {
	seasons := make(map[string]int)
	for _, m := range TamilMonths {
		seasons[RutuOf(m).Name]++
	}
	if len(seasons) != 6 {
		t.Fatalf("got %d seasons, want 6", len(seasons))
	}
	for name, n := range seasons {
		if n != 2 {
			t.Errorf("%s spans %d months, want 2", name, n)
		}
	}
	if got := RutuOf("Thai").Name; got != "Hemantha Rutu" {
		t.Errorf("RutuOf(Thai) = %s, want Hemantha Rutu", got)
	}
}
