package assignment

import (
	"errors"
	"fmt"
)

type Phase string

const (
	PhaseBuild     Phase = "build"
	PhaseSolve     Phase = "solve"
	PhaseInterpret Phase = "interpret"
)

var (
	ErrUnexpectedInfeasible = errors.New("solver reported an infeasible assignment model")
	ErrNoSolution           = errors.New("solver returned no solution")
	ErrInvalidMatching      = errors.New("solution is not a matching")
)

// SolverFailure is a terminal failure of an optimization run.
type SolverFailure struct {
	Phase      Phase
	Candidates int
	Status     Status
	Err        error
}

func (e *SolverFailure) Error() string {
	return fmt.Sprintf("%s phase failed (candidates=%d, status=%s): %v", e.Phase, e.Candidates, e.Status, e.Err)
}

func (e *SolverFailure) Unwrap() error {
	return e.Err
}
