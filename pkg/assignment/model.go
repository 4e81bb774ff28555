package assignment

import (
	"fmt"

	"github.com/lintang-b-s/ridematch/pkg/pairset"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

// Model maps solver variables back to candidate pairs.
type Model struct {
	pairs      *pairset.PairSet
	vars       []Var
	numRows    int
	unweighted bool
}

func (m *Model) NumVariables() int {
	return len(m.vars)
}

func (m *Model) NumConstraints() int {
	return m.numRows
}

/*
BuildModel emits

	max  Σ w_dr · x_dr
	s.t. Σ_r x_dr ≤ 1   for every driver d with at least one candidate
	     Σ_d x_dr ≤ 1   for every rider r with at least one candidate
	     x_dr ∈ {0,1}

one variable per candidate pair, w ≡ 1 under weight.Unweighted. The constraint matrix is the
incidence matrix of a bipartite graph, so the model is totally unimodular. Single writer:
callers must not share solver across goroutines.
*/
func BuildModel(solver Solver, ps *pairset.PairSet) *Model {
	m := &Model{
		pairs:      ps,
		vars:       make([]Var, len(ps.Pairs)),
		unweighted: ps.Scheme == weight.Unweighted,
	}

	driverTerms := make([][]Term, ps.NumDrivers)
	riderTerms := make([][]Term, ps.NumRiders)
	objective := make([]Term, 0, len(ps.Pairs))

	for i, p := range ps.Pairs {
		v := solver.AddVariable(fmt.Sprintf("x_%d_%d", p.DriverID, p.RiderID))
		m.vars[i] = v

		w := p.Weight
		if m.unweighted {
			w = 1
		}
		objective = append(objective, Term{Var: v, Coeff: w})
		driverTerms[p.DriverIdx] = append(driverTerms[p.DriverIdx], Term{Var: v, Coeff: 1})
		riderTerms[p.RiderIdx] = append(riderTerms[p.RiderIdx], Term{Var: v, Coeff: 1})
	}

	solver.SetObjective(objective, Maximize)

	for _, terms := range driverTerms {
		if len(terms) == 0 {
			continue
		}
		solver.AddConstraint(terms, LessEqual, 1)
		m.numRows++
	}
	for _, terms := range riderTerms {
		if len(terms) == 0 {
			continue
		}
		solver.AddConstraint(terms, LessEqual, 1)
		m.numRows++
	}
	return m
}
