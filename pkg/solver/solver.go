// Package solver selects an assignment.Solver backend by name.
package solver

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/solver/hungarian"
	"github.com/lintang-b-s/ridematch/pkg/solver/simplex"
)

const (
	Hungarian = "hungarian"
	Simplex   = "simplex"
)

var ErrUnknownBackend = errors.New("unknown solver backend")

// Factory returns a fresh solver for one model.
type Factory func() assignment.Solver

func Backends() []string {
	return []string{Hungarian, Simplex}
}

func NewFactory(backend string) (Factory, error) {
	switch backend {
	case Hungarian, "":
		return func() assignment.Solver { return hungarian.NewSolver() }, nil
	case Simplex:
		return func() assignment.Solver { return simplex.NewSolver() }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
