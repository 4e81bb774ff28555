package assignment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/pairset"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	terms []Term
	op    Op
	bound float64
}

// recordingSolver keeps the emitted model and returns preset values.
type recordingSolver struct {
	names     []string
	objective []Term
	sense     Sense
	rows      []row
	values    map[Var]float64
	objValue  float64
}

func (s *recordingSolver) AddVariable(name string) Var {
	s.names = append(s.names, name)
	return Var(len(s.names) - 1)
}

func (s *recordingSolver) SetObjective(terms []Term, sense Sense) {
	s.objective = terms
	s.sense = sense
}

func (s *recordingSolver) AddConstraint(terms []Term, op Op, bound float64) {
	s.rows = append(s.rows, row{terms: terms, op: op, bound: bound})
}

func (s *recordingSolver) Solve(context.Context, Params) (Status, error) {
	return Optimal, nil
}

func (s *recordingSolver) ValueOf(v Var) float64 {
	return s.values[v]
}

func (s *recordingSolver) ObjectiveValue() float64 {
	return s.objValue
}

func samplePairSet(scheme weight.Scheme) *pairset.PairSet {
	return &pairset.PairSet{
		Scheme:     scheme,
		NumDrivers: 3,
		NumRiders:  2,
		Pairs: []pairset.Pair{
			{DriverIdx: 0, RiderIdx: 0, DriverID: 1, RiderID: 100000, Weight: 2.5},
			{DriverIdx: 0, RiderIdx: 1, DriverID: 1, RiderID: 100001, Weight: -1},
			{DriverIdx: 2, RiderIdx: 1, DriverID: 3, RiderID: 100001, Weight: 0.75},
		},
	}
}

func TestBuildModelStructure(t *testing.T) {
	s := &recordingSolver{}
	m := BuildModel(s, samplePairSet(weight.DistanceSavings))

	assert.Equal(t, 3, m.NumVariables())
	assert.Equal(t, []string{"x_1_100000", "x_1_100001", "x_3_100001"}, s.names)
	assert.Equal(t, Maximize, s.sense)
	assert.Equal(t, []Term{{Var: 0, Coeff: 2.5}, {Var: 1, Coeff: -1}, {Var: 2, Coeff: 0.75}}, s.objective)

	// driver 1 has no candidate and gets no row: drivers 0 and 2, riders 0 and 1
	require.Len(t, s.rows, 4)
	assert.Equal(t, 4, m.NumConstraints())
	for _, r := range s.rows {
		assert.Equal(t, LessEqual, r.op)
		assert.Equal(t, 1.0, r.bound)
		for _, term := range r.terms {
			assert.Equal(t, 1.0, term.Coeff)
		}
	}
	assert.Equal(t, []Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}, s.rows[0].terms)
	assert.Equal(t, []Term{{Var: 2, Coeff: 1}}, s.rows[1].terms)
	assert.Equal(t, []Term{{Var: 0, Coeff: 1}}, s.rows[2].terms)
	assert.Equal(t, []Term{{Var: 1, Coeff: 1}, {Var: 2, Coeff: 1}}, s.rows[3].terms)

	// every variable sits in exactly one driver row and one rider row
	count := make(map[Var]int)
	for _, r := range s.rows {
		for _, term := range r.terms {
			count[term.Var]++
		}
	}
	for v := Var(0); v < 3; v++ {
		assert.Equal(t, 2, count[v])
	}
}

func TestBuildModelUnweightedUsesUnitObjective(t *testing.T) {
	s := &recordingSolver{}
	BuildModel(s, samplePairSet(weight.Unweighted))
	for _, term := range s.objective {
		assert.Equal(t, 1.0, term.Coeff)
	}
}

func sampleParticipants() ([]participant.Participant, []participant.Participant) {
	mk := func(id int64, role participant.Role, o, d geo.Coordinate, km float64) participant.Participant {
		return participant.NewParticipant(id, role, o, d, km, km*2, 600, 660, 500)
	}
	drivers := []participant.Participant{
		mk(1, participant.Driver, geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 4), 4),
		mk(2, participant.Driver, geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1), 1),
		mk(3, participant.Driver, geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 3), 3),
	}
	riders := []participant.Participant{
		mk(100000, participant.Rider, geo.NewCoordinate(0, 1), geo.NewCoordinate(0, 2), 1),
		mk(100001, participant.Rider, geo.NewCoordinate(0, 1), geo.NewCoordinate(0, 3), 2),
	}
	return drivers, riders
}

// lineKm treats longitude degrees as km along a line.
func lineKm(a, b geo.Coordinate) float64 {
	return math.Abs(a.Lon - b.Lon)
}

func TestInterpretReadsMatchesAndMetrics(t *testing.T) {
	drivers, riders := sampleParticipants()
	s := &recordingSolver{values: map[Var]float64{0: 1, 2: 0.9999}, objValue: 3.25}
	m := BuildModel(s, samplePairSet(weight.ProximityIndex))

	sol, err := Interpret(m, s, Optimal, lineKm, drivers, riders)
	require.NoError(t, err)
	require.Len(t, sol.Matches, 2)
	assert.False(t, sol.Suboptimal())
	assert.Equal(t, 3.25, sol.Objective)

	first := sol.Matches[0]
	assert.Equal(t, int64(1), first.DriverID)
	assert.Equal(t, int64(100000), first.RiderID)
	// 0 -> 1 -> 2 -> 4 shares 4 km, (4 + 1) - 4 = 1 km saved
	assert.InDelta(t, 4.0, first.Geometry.SharedRouteKm(), 1e-12)
	assert.InDelta(t, 1.0, first.SavingsKm, 1e-12)

	second := sol.Matches[1]
	// 0 -> 1 -> 3 -> 3 shares 3 km, (3 + 2) - 3 = 2 km saved
	assert.InDelta(t, 2.0, second.SavingsKm, 1e-12)

	assert.Equal(t, 2, sol.Metrics.Matches)
	assert.InDelta(t, 4.0/5.0, sol.Metrics.MatchingRate, 1e-12)
	assert.InDelta(t, 1.5, sol.Metrics.AKS, 1e-12)
	assert.InDelta(t, 3.0, sol.Metrics.TotalSavingsKm, 1e-12)
	assert.InDelta(t, 3.25, sol.Metrics.TotalWeight, 1e-12)
}

func TestInterpretStatuses(t *testing.T) {
	drivers, riders := sampleParticipants()

	testCases := []struct {
		name       string
		status     Status
		wantErr    error
		suboptimal bool
	}{
		{name: "optimal", status: Optimal},
		{name: "time limit", status: TimeLimitWithIncumbent, suboptimal: true},
		{name: "infeasible", status: Infeasible, wantErr: ErrUnexpectedInfeasible},
		{name: "no solution", status: NoSolution, wantErr: ErrNoSolution},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingSolver{values: map[Var]float64{0: 1}}
			m := BuildModel(s, samplePairSet(weight.DistanceSavings))
			sol, err := Interpret(m, s, tt.status, lineKm, drivers, riders)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var failure *SolverFailure
				require.True(t, errors.As(err, &failure))
				assert.Equal(t, PhaseSolve, failure.Phase)
				assert.Equal(t, 3, failure.Candidates)
				assert.Equal(t, tt.status, failure.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suboptimal, sol.Suboptimal())
			assert.Len(t, sol.Matches, 1)
		})
	}
}

func TestInterpretRejectsNonMatching(t *testing.T) {
	drivers, riders := sampleParticipants()
	s := &recordingSolver{values: map[Var]float64{0: 1, 1: 1}}
	m := BuildModel(s, samplePairSet(weight.DistanceSavings))

	_, err := Interpret(m, s, Optimal, lineKm, drivers, riders)
	require.ErrorIs(t, err, ErrInvalidMatching)
	var failure *SolverFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, PhaseInterpret, failure.Phase)
}

func TestComputeMetrics(t *testing.T) {
	testCases := []struct {
		name    string
		matches []Match
		nd, nr  int
		wantMR  float64
		wantAKS float64
	}{
		{name: "nobody", nd: 0, nr: 0},
		{name: "no matches", nd: 4, nr: 6},
		{
			name:    "all matched",
			matches: []Match{{SavingsKm: 2}, {SavingsKm: -1}},
			nd:      2,
			nr:      2,
			wantMR:  1,
			wantAKS: 0.5,
		},
		{
			name:    "partial",
			matches: []Match{{SavingsKm: 3}},
			nd:      3,
			nr:      5,
			wantMR:  0.25,
			wantAKS: 3,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.matches, tt.nd, tt.nr)
			assert.InDelta(t, tt.wantMR, m.MatchingRate, 1e-12)
			assert.InDelta(t, tt.wantAKS, m.AKS, 1e-12)
			assert.GreaterOrEqual(t, m.MatchingRate, 0.0)
			assert.LessOrEqual(t, m.MatchingRate, 1.0)
			assert.Equal(t, len(tt.matches) == 0, m.MatchingRate == 0)
			assert.False(t, math.IsNaN(m.AKS))
		})
	}
}

func TestEmptySolution(t *testing.T) {
	sol := EmptySolution(0, 7)
	assert.Empty(t, sol.Matches)
	assert.Equal(t, Optimal, sol.Status)
	assert.Equal(t, 0.0, sol.Metrics.MatchingRate)
	assert.Equal(t, 0.0, sol.Metrics.AKS)
}
