package assignment

import (
	"fmt"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

// Match is a candidate pair whose variable resolved to 1.
type Match struct {
	DriverIdx int             `json:"-"`
	RiderIdx  int             `json:"-"`
	DriverID  int64           `json:"driver_id"`
	RiderID   int64           `json:"rider_id"`
	Weight    float64         `json:"weight"`
	Geometry  weight.Geometry `json:"geometry"`
	SavingsKm float64         `json:"savings_km"`
}

type Metrics struct {
	// MatchingRate is 2|M| / (|D| + |R|).
	MatchingRate float64 `json:"matching_rate"`
	// AKS is the mean per-match distance saved, 0 without matches.
	AKS            float64 `json:"aks"`
	Matches        int     `json:"matches"`
	TotalSavingsKm float64 `json:"total_savings_km"`
	TotalWeight    float64 `json:"total_weight"`
}

type Solution struct {
	Matches   []Match
	Metrics   Metrics
	Status    Status
	Objective float64
}

// Suboptimal reports whether the solver stopped at its time limit.
func (s *Solution) Suboptimal() bool {
	return s.Status == TimeLimitWithIncumbent
}

// EmptySolution is the trivial result of an empty candidate set.
func EmptySolution(numDrivers, numRiders int) *Solution {
	return &Solution{
		Matches: []Match{},
		Metrics: ComputeMetrics(nil, numDrivers, numRiders),
		Status:  Optimal,
	}
}

func ComputeMetrics(matches []Match, numDrivers, numRiders int) Metrics {
	m := Metrics{Matches: len(matches)}
	if total := numDrivers + numRiders; total > 0 {
		m.MatchingRate = 2 * float64(len(matches)) / float64(total)
	}
	for _, match := range matches {
		m.TotalSavingsKm += match.SavingsKm
		m.TotalWeight += match.Weight
	}
	if len(matches) > 0 {
		m.AKS = m.TotalSavingsKm / float64(len(matches))
	}
	return m
}

// Interpret reads the solver's values back. Variables above 0.5 are matches. The detour
// geometry of matched pairs is computed with dist when the weighting scheme skipped it.
func Interpret(model *Model, solver Solver, status Status, dist geo.DistanceFunc,
	drivers, riders []participant.Participant) (*Solution, error) {
	ps := model.pairs
	switch status {
	case Infeasible:
		return nil, &SolverFailure{Phase: PhaseSolve, Candidates: ps.Len(), Status: status, Err: ErrUnexpectedInfeasible}
	case NoSolution:
		return nil, &SolverFailure{Phase: PhaseSolve, Candidates: ps.Len(), Status: status, Err: ErrNoSolution}
	}

	driverUsed := make([]bool, ps.NumDrivers)
	riderUsed := make([]bool, ps.NumRiders)
	matches := make([]Match, 0)

	for i, v := range model.vars {
		if solver.ValueOf(v) <= 0.5 {
			continue
		}
		p := ps.Pairs[i]
		if driverUsed[p.DriverIdx] || riderUsed[p.RiderIdx] {
			return nil, &SolverFailure{
				Phase: PhaseInterpret, Candidates: ps.Len(), Status: status,
				Err: fmt.Errorf("%w: driver %d or rider %d matched twice", ErrInvalidMatching, p.DriverID, p.RiderID),
			}
		}
		driverUsed[p.DriverIdx] = true
		riderUsed[p.RiderIdx] = true

		driver, rider := drivers[p.DriverIdx], riders[p.RiderIdx]
		g := ps.EnsureGeometry(i, dist, driver, rider)
		w := p.Weight
		if model.unweighted {
			w = 1
		}
		matches = append(matches, Match{
			DriverIdx: p.DriverIdx,
			RiderIdx:  p.RiderIdx,
			DriverID:  p.DriverID,
			RiderID:   p.RiderID,
			Weight:    w,
			Geometry:  g,
			SavingsKm: g.SavingsKm(driver.DistanceKm, rider.DistanceKm),
		})
	}

	return &Solution{
		Matches:   matches,
		Metrics:   ComputeMetrics(matches, ps.NumDrivers, ps.NumRiders),
		Status:    status,
		Objective: solver.ObjectiveValue(),
	}, nil
}
