package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

func toLatLng(c Coordinate) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// GreatCircleS2 is the spherical great-circle distance in km computed with s2 angles.
func GreatCircleS2(a, b Coordinate) float64 {
	angle := toLatLng(a).Distance(toLatLng(b))
	return angleToKm(angle)
}

func angleToKm(angle s1.Angle) float64 {
	return angle.Radians() * earthRadiusKM
}

// IsValidCoordinate reports whether lat is in [-90,90] and lon in [-180,180].
func IsValidCoordinate(c Coordinate) bool {
	return toLatLng(c).IsValid()
}

// Bounds is a lat/lng rectangle, used to flag coordinates outside the service area.
type Bounds struct {
	rect s2.Rect
}

func NewBounds(minLat, minLon, maxLat, maxLon float64) Bounds {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(minLat, minLon))
	rect = rect.AddPoint(s2.LatLngFromDegrees(maxLat, maxLon))
	return Bounds{rect: rect}
}

// UnboundedBounds accepts every valid coordinate.
func UnboundedBounds() Bounds {
	return Bounds{rect: s2.FullRect()}
}

func (b Bounds) Contains(c Coordinate) bool {
	return b.rect.ContainsLatLng(toLatLng(c))
}

func (b Bounds) IsFull() bool {
	return b.rect.IsFull()
}
