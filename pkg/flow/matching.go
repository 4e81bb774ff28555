package flow

import (
	"github.com/lintang-b-s/ridematch/pkg/pairset"
)

// MaxCardinality is the size of a maximum matching of the candidate graph, ignoring
// weights. No solution under any scheme can match more pairs.
func MaxCardinality(ps *pairset.PairSet) int {
	if ps.Empty() {
		return 0
	}

	// 0 source, 1 sink, drivers from 2, riders after them
	source, sink := 0, 1
	driver := func(i int) int { return 2 + i }
	rider := func(i int) int { return 2 + ps.NumDrivers + i }

	g := NewGraph(2 + ps.NumDrivers + ps.NumRiders)
	driverDeg, riderDeg := ps.Degrees()
	for i, deg := range driverDeg {
		if deg > 0 {
			g.AddEdge(source, driver(i), 1)
		}
	}
	for i, deg := range riderDeg {
		if deg > 0 {
			g.AddEdge(rider(i), sink, 1)
		}
	}
	for _, p := range ps.Pairs {
		g.AddEdge(driver(p.DriverIdx), rider(p.RiderIdx), 1)
	}
	return NewDinic(g).MaxFlow(source, sink)
}
