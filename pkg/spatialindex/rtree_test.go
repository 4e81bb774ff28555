package spatialindex

import (
	"sort"
	"testing"

	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSearchWithinRadius(t *testing.T) {
	center := geo.NewCoordinate(-7.7956, 110.3695)
	points := []geo.Coordinate{
		center,
		geo.NewCoordinate(-7.7900, 110.3700), // ~0.6 km
		geo.NewCoordinate(-7.7600, 110.4000), // ~5.2 km
		geo.NewCoordinate(-7.5755, 110.8243), // ~55 km
	}

	rt := NewRtree()
	rt.Build(points, zap.NewNop())
	assert.Equal(t, 4, rt.Len())

	testCases := []struct {
		name   string
		radius float64
		want   []int
	}{
		{name: "one km", radius: 1, want: []int{0, 1}},
		{name: "ten km", radius: 10, want: []int{0, 1, 2}},
		{name: "hundred km", radius: 100, want: []int{0, 1, 2, 3}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.SearchWithinRadius(center.Lat, center.Lon, tt.radius)
			sort.Ints(got)
			assert.Equal(t, tt.want, got)
		})
	}
}
