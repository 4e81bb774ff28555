package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMetrics(t *testing.T) {
	testCases := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    NewCoordinate(-7.7956, 110.3695),
			b:    NewCoordinate(-7.7956, 110.3695),
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of latitude",
			a:    NewCoordinate(0, 0),
			b:    NewCoordinate(1, 0),
			want: 111.195,
			tol:  0.01,
		},
		{
			name: "yogyakarta to solo",
			a:    NewCoordinate(-7.7956, 110.3695),
			b:    NewCoordinate(-7.5755, 110.8243),
			want: 55.7,
			tol:  0.5,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Haversine(tt.a, tt.b), tt.tol)
			assert.InDelta(t, tt.want, GreatCircleS2(tt.a, tt.b), tt.tol)
			assert.InDelta(t, tt.want, Equirectangular(tt.a, tt.b), tt.tol)
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := NewCoordinate(52.52, 13.405)
	b := NewCoordinate(52.37, 4.895)
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
	assert.InDelta(t, GreatCircleS2(a, b), GreatCircleS2(b, a), 1e-9)
}

func TestDistanceByName(t *testing.T) {
	for _, name := range []string{"", MetricHaversine, MetricGreatCircleS2, MetricEquirectangular} {
		f, ok := DistanceByName(name)
		require.True(t, ok, name)
		require.NotNil(t, f)
	}
	_, ok := DistanceByName("vincenty")
	assert.False(t, ok)
}

func TestGetDestinationPoint(t *testing.T) {
	lat, lon := GetDestinationPoint(0, 0, 90, 111.195)
	assert.InDelta(t, 0, lat, 1e-6)
	assert.InDelta(t, 1, lon, 1e-3)
	assert.False(t, math.IsNaN(lat))
}

func TestBounds(t *testing.T) {
	b := NewBounds(-8.2, 110.0, -7.4, 111.0)
	assert.True(t, b.Contains(NewCoordinate(-7.8, 110.4)))
	assert.False(t, b.Contains(NewCoordinate(-6.2, 106.8)))
	assert.False(t, b.IsFull())

	assert.True(t, UnboundedBounds().Contains(NewCoordinate(89, -179)))
	assert.True(t, IsValidCoordinate(NewCoordinate(-7.8, 110.4)))
	assert.False(t, IsValidCoordinate(NewCoordinate(91, 0)))
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}
	encoded := PolylineFromCoords(coords)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range coords {
		assert.InDelta(t, coords[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, coords[i].Lon, decoded[i].Lon, 1e-5)
	}
}
