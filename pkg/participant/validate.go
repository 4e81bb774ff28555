package participant

import (
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/util"
)

type Validator struct {
	bounds       geo.Bounds
	strictBounds bool
}

// NewValidator. with strictBounds false, coordinates outside bounds are reported by
// OutOfBounds but not rejected.
func NewValidator(bounds geo.Bounds, strictBounds bool) *Validator {
	return &Validator{bounds: bounds, strictBounds: strictBounds}
}

func (v *Validator) Validate(p Participant) error {
	dataErr := func(field string, err error) error {
		return &DataError{ID: p.ID, Role: p.Role, Field: field, Err: err}
	}

	if !util.IsFinite(p.DurationMin) || p.DurationMin <= 0 {
		return dataErr("duration", ErrNonPositiveDuration)
	}
	if !util.IsFinite(p.DistanceKm) || p.DistanceKm < 0 {
		return dataErr("distance", ErrNegativeDistance)
	}

	for _, tw := range []struct {
		field string
		val   float64
	}{{"earliest", p.Earliest}, {"latest", p.Latest}, {"announced", p.Announced}} {
		if !util.IsFinite(tw.val) || tw.val < 0 || tw.val >= MinutesPerDay {
			return dataErr(tw.field, ErrTimeOutOfRange)
		}
	}
	if p.Earliest > p.Latest {
		return dataErr("earliest", ErrTimeWindow)
	}

	for _, c := range []struct {
		field string
		coord geo.Coordinate
	}{{"origin", p.Origin}, {"destination", p.Destination}} {
		if !util.IsFinite(c.coord.Lat, c.coord.Lon) || !geo.IsValidCoordinate(c.coord) {
			return dataErr(c.field, ErrInvalidCoordinate)
		}
		if v.strictBounds && !v.bounds.Contains(c.coord) {
			return dataErr(c.field, ErrOutOfBounds)
		}
	}
	return nil
}

// OutOfBounds reports whether either endpoint lies outside the service area.
func (v *Validator) OutOfBounds(p Participant) bool {
	return !v.bounds.Contains(p.Origin) || !v.bounds.Contains(p.Destination)
}
