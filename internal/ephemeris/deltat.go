package ephemeris

import "github.com/mooncaker816/learnmeeus/v3/julian"

// TT converts a Julian day in UT to Terrestrial Time.
func TT(jd float64) float64 {
	y, m, _ := julian.JDToCalendar(jd)
	return jd + DeltaT(float64(y)+(float64(m)-0.5)/12)/86400
}

// DeltaT returns TT-UT in seconds for a decimal year, using the
// Espenak and Meeus polynomial fits.
func DeltaT(year float64) float64 {
	switch {
	case year < 1900:
		return longTerm(year)
	case year < 1920:
		t := year - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case year < 1941:
		t := year - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case year < 1961:
		t := year - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case year < 1986:
		t := year - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case year < 2005:
		t := year - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case year < 2050:
		t := year - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case year < 2150:
		u := (year - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-year)
	default:
		return longTerm(year)
	}
}

func longTerm(year float64) float64 {
	u := (year - 1820) / 100
	return -20 + 32*u*u
}
