package panchang

import (
	"context"
	"fmt"
)

// PositionSource returns sidereal Sun and Moon longitudes at an instant.
type PositionSource interface {
	Positions(ctx context.Context, at Instant) (Longitudes, error)
}

// Segment is one element value and the span during which it held.
type Segment struct {
	Number    int     `json:"number"`
	Name      string  `json:"name"`
	Paksha    Paksha  `json:"paksha,omitempty"`
	Start     Instant `json:"-"`
	End       Instant `json:"-"`
	StartTime string  `json:"start"`
	EndTime   string  `json:"end"`
}

// ScanOptions controls transition detection.
type ScanOptions struct {
	// Step is the sampling interval in days. Zero means one minute.
	Step float64
	// Refine bisects each detected change down to one second.
	Refine bool
}

func (o ScanOptions) step() float64 {
	if o.Step <= 0 {
		return OneMinute
	}
	return o.Step
}

// Scanner builds element timelines over an interval.
type Scanner struct {
	Positions PositionSource
	Clock     Clock
	Options   ScanOptions
}

// Scan samples calc from start to end and returns the ordered segments of
// distinct element numbers. Boundaries are accurate to one step unless
// Options.Refine is set. The final segment always ends at end.
func (s Scanner) Scan(ctx context.Context, calc Calculator, start, end Instant) ([]Segment, error) {
	if end <= start {
		return nil, fmt.Errorf("scan interval is empty: start=%f end=%f", start, end)
	}

	cur, err := s.eval(ctx, calc, start)
	if err != nil {
		return nil, err
	}

	step := s.Options.step()
	var segments []Segment
	segStart := start
	prev := start

	for i := 1; ; i++ {
		t := start.Add(float64(i) * step)
		if t >= end {
			break
		}
		e, err := s.eval(ctx, calc, t)
		if err != nil {
			return nil, err
		}
		if e.Number != cur.Number {
			boundary := t
			if s.Options.Refine {
				boundary, err = s.bisect(ctx, calc, cur.Number, prev, t)
				if err != nil {
					return nil, err
				}
			}
			segments = append(segments, s.segment(cur, segStart, boundary))
			cur = e
			segStart = boundary
		}
		prev = t
	}

	segments = append(segments, s.segment(cur, segStart, end))
	return segments, nil
}

// bisect narrows the change of element number between lo (still number)
// and hi (already different) to within one second and returns hi.
func (s Scanner) bisect(ctx context.Context, calc Calculator, number int, lo, hi Instant) (Instant, error) {
	for float64(hi-lo) > OneSecond {
		mid := lo + (hi-lo)/2
		e, err := s.eval(ctx, calc, mid)
		if err != nil {
			return 0, err
		}
		if e.Number == number {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}

func (s Scanner) eval(ctx context.Context, calc Calculator, at Instant) (Element, error) {
	l, err := s.Positions.Positions(ctx, at)
	if err != nil {
		return Element{}, ephemerisError(ctx, err, fmt.Sprintf("positions at %f", at))
	}
	return calc(l), nil
}

func (s Scanner) segment(e Element, start, end Instant) Segment {
	return Segment{
		Number:    e.Number,
		Name:      e.Name,
		Paksha:    e.Paksha,
		Start:     start,
		End:       end,
		StartTime: s.Clock.Stamp(start),
		EndTime:   s.Clock.Stamp(end),
	}
}
