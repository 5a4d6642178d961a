// Package ephemeris answers the astronomical queries the panchang engine
// consumes: sidereal Sun and Moon longitudes and sunrise/sunset.
//
// Positions come from the Meeus algorithms (learnmeeus) with nutation applied
// and the Lahiri ayanamsa subtracted. Rise and set times come from go-sunrise.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/base"
	"github.com/mooncaker816/learnmeeus/v3/moonposition"
	"github.com/mooncaker816/learnmeeus/v3/nutation"
	"github.com/mooncaker816/learnmeeus/v3/solar"
	"github.com/nathan-osman/go-sunrise"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// ErrNoSunrise is returned when the Sun does not rise or does not set on
// the requested date, as in polar day or night.
var ErrNoSunrise = errors.New("sun does not rise or set on this date")

// Meeus implements panchang.Ephemeris.
type Meeus struct {
	ayanamsa func(jde float64) float64
}

var _ panchang.Ephemeris = (*Meeus)(nil)

// New returns a Meeus ephemeris using the Lahiri ayanamsa.
func New() *Meeus {
	return &Meeus{ayanamsa: Lahiri}
}

// Positions returns sidereal apparent longitudes of the Sun and Moon.
func (m *Meeus) Positions(ctx context.Context, at panchang.Instant) (panchang.Longitudes, error) {
	if err := ctx.Err(); err != nil {
		return panchang.Longitudes{}, err
	}

	jde := TT(float64(at))
	if math.IsNaN(jde) || math.IsInf(jde, 0) {
		return panchang.Longitudes{}, fmt.Errorf("invalid instant %v", at)
	}

	sun := solar.ApparentLongitude(base.J2000Century(jde)).Deg()

	moon, _, _ := moonposition.Position(jde)
	dpsi, _ := nutation.Nutation(jde)

	aya := m.ayanamsa(jde)
	return panchang.Longitudes{
		Sun:  panchang.Normalize(sun - aya),
		Moon: panchang.Normalize(moon.Deg() + dpsi.Deg() - aya),
	}, nil
}

// SunRiseSet returns the sunrise of the local solar date containing approx
// and the first sunset after it.
func (m *Meeus) SunRiseSet(ctx context.Context, approx panchang.Instant, loc panchang.Location) (rise, set panchang.Instant, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	// Shift to local mean solar time so the date matches the place.
	local := approx.Time().Add(time.Duration(loc.Longitude / 15 * float64(time.Hour)))
	y, mo, d := local.Date()

	r, s := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, y, mo, d)
	if r.IsZero() || s.IsZero() {
		return 0, 0, fmt.Errorf("%w: %04d-%02d-%02d at %.4f,%.4f", ErrNoSunrise, y, mo, d, loc.Latitude, loc.Longitude)
	}
	if !s.After(r) {
		next := time.Date(y, mo, d+1, 0, 0, 0, 0, time.UTC)
		_, s = sunrise.SunriseSunset(loc.Latitude, loc.Longitude, next.Year(), next.Month(), next.Day())
		if s.IsZero() || !s.After(r) {
			return 0, 0, fmt.Errorf("%w: no sunset after sunrise on %04d-%02d-%02d", ErrNoSunrise, y, mo, d)
		}
	}

	return panchang.InstantOf(r), panchang.InstantOf(s), nil
}

// Lahiri returns the Lahiri (Chitrapaksha) ayanamsa in degrees for a
// Julian ephemeris day.
func Lahiri(jde float64) float64 {
	t := base.J2000Century(jde)
	return 23.85306 + 1.396972*t + 0.000308*t*t
}
