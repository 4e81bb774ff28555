// Package feasibility decides whether a driver can pick up a rider within both time windows.
package feasibility

import (
	"math"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/util"
)

type Filter struct {
	dist geo.DistanceFunc
}

func NewFilter(dist geo.DistanceFunc) *Filter {
	return &Filter{dist: dist}
}

// Rendezvous is the intermediate state of one feasibility evaluation.
type Rendezvous struct {
	// K is the latest rendezvous time (minutes from midnight) that still lets both parties
	// start their own trip before their latest start time.
	K float64
	// PickupKm is the origin to origin distance.
	PickupKm float64
	// DriverLegMin is PickupKm travelled at the driver's average speed.
	DriverLegMin float64
	// RiderLegMin is PickupKm travelled at the rider's average speed.
	RiderLegMin float64
}

// Feasible reports whether (driver, rider) is an admissible pair.
func (f *Filter) Feasible(driver, rider participant.Participant) bool {
	_, ok := f.Evaluate(driver, rider)
	return ok
}

/*
Evaluate computes

	k = min( rider.l − rider.duration − d(Od,Or)/v_driver,
	         driver.l − driver.duration − d(Or,Od)/v_rider )

and admits the pair iff (k − driver.e ≥ 0) OR (k + d(Od,Or)/v_driver − rider.e ≥ 0).
An undefined speed, a missing time field or a non-finite k rejects the pair.
*/
func (f *Filter) Evaluate(driver, rider participant.Participant) (Rendezvous, bool) {
	vDriver, ok := driver.Speed()
	if !ok {
		return Rendezvous{}, false
	}
	vRider, ok := rider.Speed()
	if !ok {
		return Rendezvous{}, false
	}
	if !util.IsFinite(driver.Earliest, driver.Latest, rider.Earliest, rider.Latest) {
		return Rendezvous{}, false
	}

	toRider := f.dist(driver.Origin, rider.Origin)
	toDriver := f.dist(rider.Origin, driver.Origin)
	if !util.IsFinite(toRider, toDriver) || toRider < 0 || toDriver < 0 {
		return Rendezvous{}, false
	}

	driverLeg := toRider / vDriver
	riderLeg := toDriver / vRider

	k := math.Min(
		rider.LatestDeparture()-driverLeg,
		driver.LatestDeparture()-riderLeg,
	)

	rv := Rendezvous{
		K:            k,
		PickupKm:     toRider,
		DriverLegMin: driverLeg,
		RiderLegMin:  riderLeg,
	}
	if !util.IsFinite(k) {
		return rv, false
	}

	driverWaits := k-driver.Earliest >= 0
	riderWaits := k+driverLeg-rider.Earliest >= 0
	return rv, driverWaits || riderWaits
}
