package weight

import (
	"math"
	"testing"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightSchemes(t *testing.T) {
	g := Geometry{PickupKm: 1, RiderTripKm: 6, DropoffKm: 2}

	testCases := []struct {
		name     string
		scheme   Scheme
		driverKm float64
		riderKm  float64
		geometry Geometry
		want     float64
	}{
		{name: "unweighted", scheme: Unweighted, driverKm: 10, riderKm: 6, geometry: g, want: 1},
		{name: "savings positive", scheme: DistanceSavings, driverKm: 10, riderKm: 6, geometry: g, want: 7},
		{name: "savings negative", scheme: DistanceSavings, driverKm: 3, riderKm: 2, geometry: g, want: -4},
		{name: "proximity", scheme: ProximityIndex, driverKm: 10, riderKm: 6, geometry: g, want: 0.6},
		{name: "proximity symmetric", scheme: ProximityIndex, driverKm: 6, riderKm: 10, geometry: g, want: 0.6},
		{name: "proximity equal trips", scheme: ProximityIndex, driverKm: 4, riderKm: 4, geometry: g, want: 1},
		{name: "proximity zero rider", scheme: ProximityIndex, driverKm: 4, riderKm: 0, geometry: g, want: 0},
		{name: "adjusted", scheme: AdjustedProximity, driverKm: 10, riderKm: 6, geometry: g, want: 10.0 / 9.0 * 0.6},
		{name: "adjusted zero shared route", scheme: AdjustedProximity, driverKm: 10, riderKm: 6, geometry: Geometry{}, want: 0},
		{name: "adjusted zero rider", scheme: AdjustedProximity, driverKm: 10, riderKm: 0, geometry: g, want: 0},
		{
			name: "savings non finite geometry", scheme: DistanceSavings, driverKm: 10, riderKm: 6,
			geometry: Geometry{PickupKm: math.Inf(1)}, want: 0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.scheme)(tt.driverKm, tt.riderKm, tt.geometry)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestProximityIsBounded(t *testing.T) {
	f := For(ProximityIndex)
	for _, d := range []float64{0.1, 1, 3.5, 40} {
		for _, r := range []float64{0.2, 2, 7, 90} {
			w := f(d, r, Geometry{})
			assert.Greater(t, w, 0.0)
			assert.LessOrEqual(t, w, 1.0)
		}
	}
}

func TestNewGeometry(t *testing.T) {
	driver := participant.NewParticipant(1, participant.Driver,
		geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 3), 3, 6, 0, 10, 0)
	rider := participant.NewParticipant(2, participant.Rider,
		geo.NewCoordinate(0, 1), geo.NewCoordinate(0, 2), 1, 2, 0, 10, 0)

	calls := 0
	manhattan := func(a, b geo.Coordinate) float64 {
		calls++
		return math.Abs(a.Lat-b.Lat) + math.Abs(a.Lon-b.Lon)
	}

	g := NewGeometry(manhattan, driver, rider)
	assert.Equal(t, 3, calls)
	assert.Equal(t, Geometry{PickupKm: 1, RiderTripKm: 1, DropoffKm: 1}, g)
	assert.InDelta(t, 3.0, g.SharedRouteKm(), 1e-12)
	assert.InDelta(t, 1.0, g.SavingsKm(driver.DistanceKm, rider.DistanceKm), 1e-12)
	assert.Len(t, Route(driver, rider), 4)
}

func TestParseScheme(t *testing.T) {
	testCases := []struct {
		in   string
		want Scheme
	}{
		{"", Unweighted},
		{"unweighted", Unweighted},
		{"distance_savings", DistanceSavings},
		{"Distance-Savings", DistanceSavings},
		{"distance_proximity", ProximityIndex},
		{"proximity_index", ProximityIndex},
		{"adjusted_proximity", AdjustedProximity},
	}
	for _, tt := range testCases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScheme(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseScheme("fastest")
	assert.Error(t, err)
}

func TestSchemeStringRoundTrip(t *testing.T) {
	for _, s := range Schemes() {
		var parsed Scheme
		require.NoError(t, parsed.UnmarshalText([]byte(s.String())))
		assert.Equal(t, s, parsed)
	}
	assert.True(t, DistanceSavings.NeedsGeometry())
	assert.True(t, AdjustedProximity.NeedsGeometry())
	assert.False(t, ProximityIndex.NeedsGeometry())
	assert.False(t, Unweighted.NeedsGeometry())
}
