// Package weight computes the compatibility score of a feasible driver/rider pair.
package weight

import (
	"math"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/util"
)

// Geometry is the shared route driver origin -> rider origin -> rider destination -> driver destination.
type Geometry struct {
	PickupKm    float64 `json:"pickup_km"`
	RiderTripKm float64 `json:"rider_trip_km"`
	DropoffKm   float64 `json:"dropoff_km"`
}

// SharedRouteKm is d_match.
func (g Geometry) SharedRouteKm() float64 {
	return g.PickupKm + g.RiderTripKm + g.DropoffKm
}

// SavingsKm is (driverKm + riderKm) - d_match. Negative when sharing costs more.
func (g Geometry) SavingsKm(driverKm, riderKm float64) float64 {
	return driverKm + riderKm - g.SharedRouteKm()
}

// Route lists the four stops of the shared route.
func Route(driver, rider participant.Participant) []geo.Coordinate {
	return []geo.Coordinate{driver.Origin, rider.Origin, rider.Destination, driver.Destination}
}

// NewGeometry makes the three distance calls of a pair.
func NewGeometry(dist geo.DistanceFunc, driver, rider participant.Participant) Geometry {
	return Geometry{
		PickupKm:    dist(driver.Origin, rider.Origin),
		RiderTripKm: dist(rider.Origin, rider.Destination),
		DropoffKm:   dist(rider.Destination, driver.Destination),
	}
}

// Func scores a pair from the peak trip lengths and the detour geometry.
type Func func(driverKm, riderKm float64, g Geometry) float64

// For returns the pure scoring function of s. Unknown schemes score like Unweighted.
func For(s Scheme) Func {
	switch s {
	case DistanceSavings:
		return distanceSavings
	case ProximityIndex:
		return proximityIndex
	case AdjustedProximity:
		return adjustedProximity
	default:
		return unweighted
	}
}

func unweighted(_, _ float64, _ Geometry) float64 {
	return 1
}

func distanceSavings(driverKm, riderKm float64, g Geometry) float64 {
	w := g.SavingsKm(driverKm, riderKm)
	if !util.IsFinite(w) {
		return 0
	}
	return w
}

// proximityIndex is min(d_driver/d_rider, d_rider/d_driver), in (0,1].
func proximityIndex(driverKm, riderKm float64, _ Geometry) float64 {
	if !(driverKm > 0) || !(riderKm > 0) || !util.IsFinite(driverKm, riderKm) {
		return 0
	}
	return math.Min(driverKm/riderKm, riderKm/driverKm)
}

func adjustedProximity(driverKm, riderKm float64, g Geometry) float64 {
	shared := g.SharedRouteKm()
	if !(shared > 0) || !util.IsFinite(shared) {
		return 0
	}
	w := driverKm / shared * proximityIndex(driverKm, riderKm, g)
	if !util.IsFinite(w) {
		return 0
	}
	return w
}
