// Package assignment turns a candidate pair set into a 0/1 assignment model for an external
// solver and reads the solution back into matches and metrics.
package assignment

import (
	"context"
	"time"
)

// Var is a solver-owned handle of one decision variable.
type Var int

type Term struct {
	Var   Var
	Coeff float64
}

type Sense uint8

const (
	Maximize Sense = iota
	Minimize
)

type Op uint8

const (
	LessEqual Op = iota
	GreaterEqual
	Equal
)

func (o Op) String() string {
	switch o {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	default:
		return "="
	}
}

type Status uint8

const (
	Optimal Status = iota
	// TimeLimitWithIncumbent: the time limit was reached, the best solution found is returned.
	TimeLimitWithIncumbent
	Infeasible
	NoSolution
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case TimeLimitWithIncumbent:
		return "TIME_LIMIT_REACHED_WITH_INCUMBENT"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "NO_SOLUTION"
	}
}

// HasSolution reports whether variable values can be read back.
func (s Status) HasSolution() bool {
	return s == Optimal || s == TimeLimitWithIncumbent
}

// Params are passed to the solver unmodified. Zero values mean no limit.
type Params struct {
	TimeLimit time.Duration
	MIPGap    float64
}

// Solver is the narrow contract of a binary program solver. Implementations are not safe
// for concurrent mutation.
type Solver interface {
	AddVariable(name string) Var
	SetObjective(terms []Term, sense Sense)
	AddConstraint(terms []Term, op Op, bound float64)
	Solve(ctx context.Context, params Params) (Status, error)
	ValueOf(v Var) float64
	ObjectiveValue() float64
}

// Waiter is implemented by solvers whose work can outlive Solve, e.g. after a time limit.
// Wait blocks until that work has stopped.
type Waiter interface {
	Wait()
}
