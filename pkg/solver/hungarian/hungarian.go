// Package hungarian is an exact solver for bipartite assignment models. It satisfies
// assignment.Solver for models whose rows are degree-one constraints of a bipartite graph
// and solves them with the Kuhn-Munkres method with potentials.
package hungarian

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/util"
)

type Solver struct {
	names     []string
	objective []float64
	sense     assignment.Sense
	rows      []constraint

	values   []float64
	objValue float64
}

func NewSolver() *Solver {
	return &Solver{}
}

func (s *Solver) AddVariable(name string) assignment.Var {
	s.names = append(s.names, name)
	s.objective = append(s.objective, 0)
	return assignment.Var(len(s.names) - 1)
}

func (s *Solver) SetObjective(terms []assignment.Term, sense assignment.Sense) {
	for i := range s.objective {
		s.objective[i] = 0
	}
	for _, t := range terms {
		if int(t.Var) >= 0 && int(t.Var) < len(s.objective) {
			s.objective[t.Var] += t.Coeff
		}
	}
	s.sense = sense
}

func (s *Solver) AddConstraint(terms []assignment.Term, op assignment.Op, bound float64) {
	cp := make([]assignment.Term, len(terms))
	copy(cp, terms)
	s.rows = append(s.rows, constraint{terms: cp, op: op, bound: bound})
}

func (s *Solver) ValueOf(v assignment.Var) float64 {
	if int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

func (s *Solver) ObjectiveValue() float64 {
	return s.objValue
}

// Solve. MIPGap is ignored, the method is exact. On time limit the rows assigned so far
// form the incumbent.
func (s *Solver) Solve(ctx context.Context, params assignment.Params) (assignment.Status, error) {
	var deadline time.Time
	if params.TimeLimit > 0 {
		deadline = time.Now().Add(params.TimeLimit)
	}
	s.values = make([]float64, len(s.names))
	s.objValue = 0

	gains := make([]float64, len(s.objective))
	for i, c := range s.objective {
		if s.sense == assignment.Minimize {
			c = -c
		}
		if !util.IsFinite(c) {
			return assignment.NoSolution, errors.New("objective coefficient is not finite")
		}
		gains[i] = c
	}

	g, err := recognize(len(s.names), gains, s.rows)
	if err != nil {
		return assignment.NoSolution, err
	}

	for _, v := range g.free {
		s.values[v] = 1
	}

	expired := func() bool {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return true
		}
		return ctx.Err() != nil
	}

	chosen, complete := solveAssignment(g, expired)
	for _, e := range chosen {
		s.values[e.v] = 1
	}
	for v, x := range s.values {
		s.objValue += x * s.objective[v]
	}

	if complete {
		return assignment.Optimal, nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return assignment.NoSolution, ctx.Err()
	}
	return assignment.TimeLimitWithIncumbent, nil
}

/*
solveAssignment finds a maximum gain matching of g. Rows are the smaller side, each row is
added with one shortest augmenting path over reduced costs (cost = -gain, 0 for a missing
edge). After k rows the assignment is optimal for those k rows, so stopping early still
returns a valid matching.
*/
func solveAssignment(g *bipartite, expired func() bool) ([]edge, bool) {
	if len(g.edges) == 0 {
		return nil, true
	}

	transpose := g.numLeft > g.numRight
	n, m := g.numLeft, g.numRight
	if transpose {
		n, m = m, n
	}

	// best edge per cell, -1 when absent
	cell := make([]int, n*m)
	for i := range cell {
		cell[i] = -1
	}
	for k, e := range g.edges {
		i, j := e.left, e.right
		if transpose {
			i, j = j, i
		}
		if cur := cell[i*m+j]; cur == -1 || g.edges[cur].gain < e.gain {
			cell[i*m+j] = k
		}
	}
	cost := func(i, j int) float64 {
		if k := cell[(i-1)*m+(j-1)]; k != -1 {
			return -g.edges[k].gain
		}
		return 0
	}

	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	complete := true
	for i := 1; i <= n; i++ {
		if expired() {
			complete = false
			break
		}
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0, j) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	chosen := make([]edge, 0, n)
	for j := 1; j <= m; j++ {
		if p[j] == 0 {
			continue
		}
		if k := cell[(p[j]-1)*m+(j-1)]; k != -1 {
			chosen = append(chosen, g.edges[k])
		}
	}
	return chosen, complete
}
