package panchang

// Report is the full panchang for one civil date, location and UTC offset.
// Field names and nesting are the wire contract for every caller.
type Report struct {
	Date     string         `json:"date"`
	Location ReportLocation `json:"location"`

	TamilMonth Month   `json:"tamil_month"`
	Rutu       Rutu    `json:"rutu"`
	Ayana      Ayana   `json:"ayana"`
	Weekday    Weekday `json:"weekday"`

	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
	NextSunrise string `json:"next_sunrise"`

	Tithi       Element     `json:"tithi"`
	Nakshatra   Element     `json:"nakshatra"`
	Yoga        Element     `json:"yoga"`
	Karana      Element     `json:"karana"`
	Transitions Transitions `json:"transitions"`

	SunSign  Rasi `json:"sun_sign"`
	MoonSign Rasi `json:"moon_sign"`

	Inauspicious    InauspiciousTimings `json:"inauspicious_timings"`
	GowriPanchangam GowriPanchangam     `json:"gowri_panchangam"`
	NallaNeram      []PeriodSpan        `json:"nalla_neram"`
	Hora            []PeriodSpan        `json:"hora"`

	NokkuNaal      NokkuNaal      `json:"nokku_naal"`
	AmirthathiYoga AmirthathiYoga `json:"amirthathi_yoga"`
	SpecialYoga    SpecialYoga    `json:"special_yoga"`
	Chandrashtamam Chandrashtamam `json:"chandrashtamam"`
}

// ReportLocation echoes the request coordinates and offset.
type ReportLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  float64 `json:"timezone"`
}

// Weekday is 0 for Sunday.
type Weekday struct {
	Number  int    `json:"number"`
	English string `json:"english"`
	Tamil   string `json:"tamil"`
}

// Transitions holds the intra-day timelines from sunrise to next sunrise.
type Transitions struct {
	Tithi     []Segment `json:"tithi"`
	Nakshatra []Segment `json:"nakshatra"`
	Yoga      []Segment `json:"yoga"`
}

// TimeSpan is a window rendered as local times.
type TimeSpan struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	NextDay bool   `json:"next_day,omitempty"`
}

// MuhurtaSpan is the rendered Dhurmuhurtham.
type MuhurtaSpan struct {
	TimeSpan
	Muhurta         int     `json:"muhurta"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// InauspiciousTimings are the single-window periods to avoid.
type InauspiciousTimings struct {
	RahuKalam     TimeSpan    `json:"rahu_kalam"`
	Yamagandam    TimeSpan    `json:"yamagandam"`
	GulikaiKalam  TimeSpan    `json:"gulikai_kalam"`
	Dhurmuhurtham MuhurtaSpan `json:"dhurmuhurtham"`
}

// PeriodSpan is a rendered NamedPeriod.
type PeriodSpan struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Class  Class  `json:"class"`
	TimeSpan
}

// GowriPanchangam holds the eight day and eight night periods.
type GowriPanchangam struct {
	Day   []PeriodSpan `json:"day"`
	Night []PeriodSpan `json:"night"`
}

func (c Clock) periods(list []NamedPeriod) []PeriodSpan {
	spans := make([]PeriodSpan, len(list))
	for i, p := range list {
		spans[i] = PeriodSpan{
			Number:   p.Number,
			Name:     p.Name,
			Class:    p.Class,
			TimeSpan: c.Span(p.Window),
		}
	}
	return spans
}
