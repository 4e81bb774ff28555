// Package participant holds the normalized driver and rider trip announcements.
package participant

import (
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/util"
)

type Role uint8

const (
	Driver Role = iota
	Rider
)

func (r Role) String() string {
	switch r {
	case Driver:
		return "driver"
	case Rider:
		return "rider"
	default:
		return "unknown"
	}
}

const MinutesPerDay = 1440.0

// Participant is one trip announcement. Times are minutes from midnight, distances in km
// and durations in minutes at peak conditions.
type Participant struct {
	ID          int64          `json:"id"`
	Role        Role           `json:"role"`
	Origin      geo.Coordinate `json:"origin"`
	Destination geo.Coordinate `json:"destination"`
	DistanceKm  float64        `json:"distance_km"`
	DurationMin float64        `json:"duration_min"`
	Earliest    float64        `json:"earliest"`
	Latest      float64        `json:"latest"`
	Announced   float64        `json:"announced"`
}

func NewParticipant(id int64, role Role, origin, destination geo.Coordinate, distanceKm, durationMin,
	earliest, latest, announced float64) Participant {
	return Participant{
		ID:          id,
		Role:        role,
		Origin:      origin,
		Destination: destination,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Earliest:    earliest,
		Latest:      latest,
		Announced:   announced,
	}
}

// LatestDeparture is q = l - duration.
func (p Participant) LatestDeparture() float64 {
	return p.Latest - p.DurationMin
}

// Speed is the average peak speed in km per minute. ok is false when it is undefined.
func (p Participant) Speed() (float64, bool) {
	if !util.IsFinite(p.DistanceKm, p.DurationMin) || p.DurationMin <= 0 || p.DistanceKm <= 0 {
		return 0, false
	}
	return p.DistanceKm / p.DurationMin, true
}
