// Package simplex solves assignment models as linear programs with gonum's simplex method.
// Binary variables are relaxed to [0,1]; for totally unimodular models such as the
// bipartite assignment the optimal vertex is integral.
package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	tolerance      = 1e-10
	integralityTol = 1e-6
)

type constraint struct {
	terms []assignment.Term
	op    assignment.Op
	bound float64
}

type Solver struct {
	names     []string
	objective []float64
	sense     assignment.Sense
	rows      []constraint

	values   []float64
	objValue float64
	// running is closed when the last simplex goroutine returns.
	running chan struct{}
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

// standardForm is min cᵀx s.t. Ax = b, x ≥ 0.
type standardForm struct {
	c            []float64
	A            *mat.Dense
	b            []float64
	initialBasic []int
}

/*
toStandardForm adds one slack per inequality row and an x_j + t_j = 1 row for each
variable that no "Σ x ≤ 1" row already bounds. Rows with a negative right-hand side are
negated; the slack basis is only offered to gonum when every row keeps a +1 slack.
*/
func (s *Solver) toStandardForm() (*standardForm, error) {
	n := len(s.names)

	bounded := make([]bool, n)
	type row struct {
		coeffs map[int]float64
		slack  float64 // +1, -1 or 0 for equality
		rhs    float64
	}
	rows := make([]row, 0, len(s.rows)+n)

	for i, c := range s.rows {
		coeffs := make(map[int]float64, len(c.terms))
		for _, t := range c.terms {
			if int(t.Var) < 0 || int(t.Var) >= n {
				return nil, fmt.Errorf("row %d references unknown variable %d", i, t.Var)
			}
			coeffs[int(t.Var)] += t.Coeff
		}
		if len(coeffs) == 0 {
			if (c.op == assignment.LessEqual && c.bound < 0) ||
				(c.op == assignment.GreaterEqual && c.bound > 0) ||
				(c.op == assignment.Equal && c.bound != 0) {
				return nil, lp.ErrInfeasible
			}
			continue
		}

		r := row{coeffs: coeffs, rhs: c.bound}
		switch c.op {
		case assignment.LessEqual:
			r.slack = 1
			if c.bound <= 1 {
				unit := true
				for _, a := range coeffs {
					if a < 1 {
						unit = false
						break
					}
				}
				if unit {
					for j := range coeffs {
						bounded[j] = true
					}
				}
			}
		case assignment.GreaterEqual:
			r.slack = -1
		}
		rows = append(rows, r)
	}

	for j := 0; j < n; j++ {
		if !bounded[j] {
			rows = append(rows, row{coeffs: map[int]float64{j: 1}, slack: 1, rhs: 1})
		}
	}

	numSlack := 0
	for _, r := range rows {
		if r.slack != 0 {
			numSlack++
		}
	}
	cols := n + numSlack

	sf := &standardForm{
		c: make([]float64, cols),
		A: mat.NewDense(len(rows), cols, nil),
		b: make([]float64, len(rows)),
	}
	for j, obj := range s.objective {
		if s.sense == assignment.Maximize {
			obj = -obj
		}
		sf.c[j] = obj
	}

	slackBasis := true
	basis := make([]int, 0, len(rows))
	slackCol := n
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for j, a := range r.coeffs {
			sf.A.Set(i, j, sign*a)
		}
		sf.b[i] = sign * r.rhs
		if r.slack != 0 {
			sf.A.Set(i, slackCol, sign*r.slack)
			if sign*r.slack == 1 {
				basis = append(basis, slackCol)
			} else {
				slackBasis = false
			}
			slackCol++
		} else {
			slackBasis = false
		}
	}
	if slackBasis {
		sf.initialBasic = basis
	}
	return sf, nil
}

type lpResult struct {
	x   []float64
	err error
}

// Solve. The gonum simplex cannot be interrupted: on time limit the solve goroutine keeps
// running until it finishes (see Wait) and NoSolution is returned, an LP has no incumbent.
// MIPGap is not used.
func (s *Solver) Solve(ctx context.Context, params assignment.Params) (assignment.Status, error) {
	s.values = make([]float64, len(s.names))
	s.objValue = 0
	if len(s.names) == 0 {
		return assignment.Optimal, nil
	}

	sf, err := s.toStandardForm()
	if errors.Is(err, lp.ErrInfeasible) {
		return assignment.Infeasible, nil
	}
	if err != nil {
		return assignment.NoSolution, err
	}

	done := make(chan lpResult, 1)
	running := make(chan struct{})
	s.running = running
	go func() {
		defer close(running)
		_, x, err := lp.Simplex(sf.c, sf.A, sf.b, tolerance, sf.initialBasic)
		done <- lpResult{x: x, err: err}
	}()

	var timeout <-chan time.Time
	if params.TimeLimit > 0 {
		timer := time.NewTimer(params.TimeLimit)
		defer timer.Stop()
		timeout = timer.C
	}

	var res lpResult
	select {
	case res = <-done:
	case <-timeout:
		return assignment.NoSolution, fmt.Errorf("simplex exceeded time limit %s", params.TimeLimit)
	case <-ctx.Done():
		return assignment.NoSolution, ctx.Err()
	}

	switch {
	case errors.Is(res.err, lp.ErrInfeasible):
		return assignment.Infeasible, nil
	case res.err != nil:
		return assignment.NoSolution, res.err
	}

	for j := range s.values {
		x := res.x[j]
		if r := math.Round(x); math.Abs(x-r) < integralityTol {
			x = r
		}
		s.values[j] = x
		s.objValue += x * s.objective[j]
	}
	return assignment.Optimal, nil
}

// Wait blocks until the simplex goroutine of the last Solve has returned.
func (s *Solver) Wait() {
	if s.running != nil {
		<-s.running
	}
}
