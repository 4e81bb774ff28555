package hungarian

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/solver/solvertest"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveHandMatrix(t *testing.T) {
	nan := math.NaN()
	ps := solvertest.Matrix(weight.DistanceSavings, [][]float64{
		{7, 5, nan},
		{6, nan, 4},
		{nan, 3, 8},
	})

	s := NewSolver()
	model := assignment.BuildModel(s, ps)
	status, err := s.Solve(context.Background(), assignment.Params{})
	require.NoError(t, err)
	require.Equal(t, assignment.Optimal, status)
	assert.InDelta(t, 19.0, s.ObjectiveValue(), 1e-9)
	assert.Equal(t, 6, model.NumConstraints())

	// d0-r1, d1-r0, d2-r2
	want := map[[2]int]bool{{0, 1}: true, {1, 0}: true, {2, 2}: true}
	for i, p := range ps.Pairs {
		x := s.ValueOf(assignment.Var(i))
		assert.Equal(t, want[[2]int{p.DriverIdx, p.RiderIdx}], x > 0.5, "pair %d-%d", p.DriverIdx, p.RiderIdx)
	}
}

func TestSolveMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 60; trial++ {
		nd, nr := 1+rng.Intn(5), 1+rng.Intn(5)
		ps := solvertest.RandomMatrix(rng, nd, nr, 0.7)

		s := NewSolver()
		assignment.BuildModel(s, ps)
		status, err := s.Solve(context.Background(), assignment.Params{})
		require.NoError(t, err)
		require.Equal(t, assignment.Optimal, status)
		require.InDelta(t, solvertest.BestMatchingWeight(ps), s.ObjectiveValue(), 1e-9,
			"trial %d (%dx%d)", trial, nd, nr)
	}
}

func TestSolveUnweightedCountsMatches(t *testing.T) {
	nan := math.NaN()
	ps := solvertest.Matrix(weight.Unweighted, [][]float64{
		{1, 1, nan, nan},
		{1, nan, nan, nan},
		{nan, nan, 1, 1},
	})

	s := NewSolver()
	assignment.BuildModel(s, ps)
	status, err := s.Solve(context.Background(), assignment.Params{})
	require.NoError(t, err)
	require.Equal(t, assignment.Optimal, status)

	matched := 0
	for i := range ps.Pairs {
		if s.ValueOf(assignment.Var(i)) > 0.5 {
			matched++
		}
	}
	assert.Equal(t, 3, matched)
	assert.InDelta(t, 3.0, s.ObjectiveValue(), 1e-12)
}

func TestSolveGenericStructure(t *testing.T) {
	s := NewSolver()
	a := s.AddVariable("a") // rows 0,1
	b := s.AddVariable("b") // row 0 only
	c := s.AddVariable("c") // no rows
	d := s.AddVariable("d") // row 1, negative gain

	s.SetObjective([]assignment.Term{{Var: a, Coeff: -3}, {Var: b, Coeff: -2}, {Var: c, Coeff: -1}, {Var: d, Coeff: 4}},
		assignment.Minimize)
	s.AddConstraint([]assignment.Term{{Var: a, Coeff: 1}, {Var: b, Coeff: 1}}, assignment.LessEqual, 1)
	s.AddConstraint([]assignment.Term{{Var: a, Coeff: 1}, {Var: d, Coeff: 1}}, assignment.LessEqual, 1)
	s.AddConstraint(nil, assignment.LessEqual, 1)

	status, err := s.Solve(context.Background(), assignment.Params{})
	require.NoError(t, err)
	require.Equal(t, assignment.Optimal, status)
	assert.Equal(t, 1.0, s.ValueOf(a))
	assert.Equal(t, 0.0, s.ValueOf(b))
	assert.Equal(t, 1.0, s.ValueOf(c))
	assert.Equal(t, 0.0, s.ValueOf(d))
	assert.InDelta(t, -4.0, s.ObjectiveValue(), 1e-12)
	assert.Equal(t, 0.0, s.ValueOf(assignment.Var(99)))
}

func TestSolveRejectsUnsupportedModels(t *testing.T) {
	testCases := []struct {
		name  string
		build func(s *Solver)
	}{
		{
			name: "odd cycle",
			build: func(s *Solver) {
				x, y, z := s.AddVariable("x"), s.AddVariable("y"), s.AddVariable("z")
				s.SetObjective([]assignment.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}, {Var: z, Coeff: 1}}, assignment.Maximize)
				s.AddConstraint([]assignment.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, assignment.LessEqual, 1)
				s.AddConstraint([]assignment.Term{{Var: y, Coeff: 1}, {Var: z, Coeff: 1}}, assignment.LessEqual, 1)
				s.AddConstraint([]assignment.Term{{Var: z, Coeff: 1}, {Var: x, Coeff: 1}}, assignment.LessEqual, 1)
			},
		},
		{
			name: "non unit coefficient",
			build: func(s *Solver) {
				x := s.AddVariable("x")
				s.SetObjective([]assignment.Term{{Var: x, Coeff: 1}}, assignment.Maximize)
				s.AddConstraint([]assignment.Term{{Var: x, Coeff: 2}}, assignment.LessEqual, 1)
			},
		},
		{
			name: "greater equal row",
			build: func(s *Solver) {
				x := s.AddVariable("x")
				s.SetObjective([]assignment.Term{{Var: x, Coeff: 1}}, assignment.Maximize)
				s.AddConstraint([]assignment.Term{{Var: x, Coeff: 1}}, assignment.GreaterEqual, 1)
			},
		},
		{
			name: "variable in three rows",
			build: func(s *Solver) {
				x := s.AddVariable("x")
				s.SetObjective([]assignment.Term{{Var: x, Coeff: 1}}, assignment.Maximize)
				for i := 0; i < 3; i++ {
					s.AddConstraint([]assignment.Term{{Var: x, Coeff: 1}}, assignment.LessEqual, 1)
				}
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSolver()
			tt.build(s)
			status, err := s.Solve(context.Background(), assignment.Params{})
			assert.Equal(t, assignment.NoSolution, status)
			assert.ErrorIs(t, err, ErrUnsupportedModel)
		})
	}
}

func TestSolveTimeLimitReturnsIncumbent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ps := solvertest.RandomMatrix(rng, 30, 30, 0.8)

	s := NewSolver()
	assignment.BuildModel(s, ps)
	status, err := s.Solve(context.Background(), assignment.Params{TimeLimit: time.Nanosecond})
	require.NoError(t, err)
	require.Equal(t, assignment.TimeLimitWithIncumbent, status)

	usedD, usedR := map[int]bool{}, map[int]bool{}
	for i, p := range ps.Pairs {
		if s.ValueOf(assignment.Var(i)) > 0.5 {
			assert.False(t, usedD[p.DriverIdx])
			assert.False(t, usedR[p.RiderIdx])
			usedD[p.DriverIdx], usedR[p.RiderIdx] = true, true
		}
	}
}

func TestSolveCancelled(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	ps := solvertest.RandomMatrix(rng, 5, 5, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSolver()
	assignment.BuildModel(s, ps)
	status, err := s.Solve(ctx, assignment.Params{})
	assert.Equal(t, assignment.NoSolution, status)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveEmptyModel(t *testing.T) {
	s := NewSolver()
	status, err := s.Solve(context.Background(), assignment.Params{})
	require.NoError(t, err)
	assert.Equal(t, assignment.Optimal, status)
	assert.Equal(t, 0.0, s.ObjectiveValue())
}
