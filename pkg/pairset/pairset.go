// Package pairset enumerates drivers x riders into the candidate edge set of the matching graph.
package pairset

import (
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

// Pair is a feasible (driver, rider) combination. DriverIdx and RiderIdx index the
// sequences passed to Build.
type Pair struct {
	DriverIdx int
	RiderIdx  int
	DriverID  int64
	RiderID   int64

	DriverKm float64
	RiderKm  float64
	// Geometry is zero when HasGeometry is false (the scheme did not need it).
	Geometry    weight.Geometry
	HasGeometry bool
	Weight      float64
}

// PairSet is the candidate edge set. Pairs are ordered by (DriverIdx, RiderIdx).
type PairSet struct {
	Pairs      []Pair
	Scheme     weight.Scheme
	NumDrivers int
	NumRiders  int
}

func (ps *PairSet) Len() int {
	return len(ps.Pairs)
}

func (ps *PairSet) Empty() bool {
	return len(ps.Pairs) == 0
}

// EnsureGeometry fills the detour geometry of pair i if it was skipped.
func (ps *PairSet) EnsureGeometry(i int, dist geo.DistanceFunc, driver, rider participant.Participant) weight.Geometry {
	p := &ps.Pairs[i]
	if !p.HasGeometry {
		p.Geometry = weight.NewGeometry(dist, driver, rider)
		p.HasGeometry = true
	}
	return p.Geometry
}

// Reweight returns a copy scored under scheme. Membership never changes, only weights.
func (ps *PairSet) Reweight(scheme weight.Scheme, dist geo.DistanceFunc, drivers, riders []participant.Participant) *PairSet {
	out := &PairSet{
		Pairs:      make([]Pair, len(ps.Pairs)),
		Scheme:     scheme,
		NumDrivers: ps.NumDrivers,
		NumRiders:  ps.NumRiders,
	}
	copy(out.Pairs, ps.Pairs)

	score := weight.For(scheme)
	for i := range out.Pairs {
		p := &out.Pairs[i]
		if scheme.NeedsGeometry() {
			out.EnsureGeometry(i, dist, drivers[p.DriverIdx], riders[p.RiderIdx])
		}
		p.Weight = score(p.DriverKm, p.RiderKm, p.Geometry)
	}
	return out
}

// Degrees counts candidate pairs per driver and per rider.
func (ps *PairSet) Degrees() (driverDeg, riderDeg []int) {
	driverDeg = make([]int, ps.NumDrivers)
	riderDeg = make([]int, ps.NumRiders)
	for _, p := range ps.Pairs {
		driverDeg[p.DriverIdx]++
		riderDeg[p.RiderIdx]++
	}
	return driverDeg, riderDeg
}
