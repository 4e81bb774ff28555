package spatialindex

import (
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes points (participant origins) by their position in the caller's slice.
type Rtree struct {
	tr *rtree.RTreeG[int]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[int]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every point with its slice index as payload.
func (rt *Rtree) Build(points []geo.Coordinate, log *zap.Logger) {
	log.Debug("Building R-tree spatial index...", zap.Int("points", len(points)))
	for i, p := range points {
		rt.tr.Insert([2]float64{p.Lon, p.Lat}, [2]float64{p.Lon, p.Lat}, i)
	}
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns the indices whose bounding box intersects the square of
// half-width radius (km) around (qLat, qLon). Callers refine with an exact distance.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []int {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*sqrt2)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*sqrt2)

	results := make([]int, 0, 16)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data int) bool {
			results = append(results, data)
			return true
		})
	return results
}

// diagonal of the search square, so the bounding box covers the whole radius
const sqrt2 = 1.4142135623730951
