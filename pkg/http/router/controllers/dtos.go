package controllers

import (
	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
)

// tripRequest only checks shape. Ranges, durations and time windows are checked per
// participant by the engine, which rejects a bad trip into the response instead of failing
// the request.
type tripRequest struct {
	ID             int64    `json:"id" validate:"required"`
	OriginLat      *float64 `json:"origin_lat" validate:"required"`
	OriginLon      *float64 `json:"origin_lon" validate:"required"`
	DestinationLat *float64 `json:"destination_lat" validate:"required"`
	DestinationLon *float64 `json:"destination_lon" validate:"required"`
	DistanceKm     float64  `json:"distance_km"`
	DurationMin    float64  `json:"duration_min"`
	Earliest       float64  `json:"earliest"`
	Latest         float64  `json:"latest"`
	Announced      float64  `json:"announced"`
}

func (t tripRequest) toParticipant(role participant.Role) participant.Participant {
	return participant.NewParticipant(t.ID, role,
		geo.NewCoordinate(*t.OriginLat, *t.OriginLon),
		geo.NewCoordinate(*t.DestinationLat, *t.DestinationLon),
		t.DistanceKm, t.DurationMin, t.Earliest, t.Latest, t.Announced)
}

func toParticipants(trips []tripRequest, role participant.Role) []participant.Participant {
	out := make([]participant.Participant, len(trips))
	for i, t := range trips {
		out[i] = t.toParticipant(role)
	}
	return out
}

type matchRequest struct {
	Scheme           string        `json:"scheme"`
	TimeLimitSeconds float64       `json:"time_limit_seconds" validate:"gte=0"`
	Drivers          []tripRequest `json:"drivers" validate:"dive"`
	Riders           []tripRequest `json:"riders" validate:"dive"`
}

type matchResponse struct {
	DriverID  int64   `json:"driver_id"`
	RiderID   int64   `json:"rider_id"`
	Weight    float64 `json:"weight"`
	SavingsKm float64 `json:"savings_km"`
	SharedKm  float64 `json:"shared_route_km"`
	Route     string  `json:"route"`
}

type metricsResponse struct {
	MatchingRate   float64 `json:"matching_rate"`
	AKS            float64 `json:"aks"`
	Matches        int     `json:"matches"`
	MaxMatches     int     `json:"max_matches"`
	TotalSavingsKm float64 `json:"total_savings_km"`
}

type rejectedResponse struct {
	ID     int64  `json:"id"`
	Role   string `json:"role"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type matchingResultResponse struct {
	RunID      string             `json:"run_id"`
	Scheme     string             `json:"scheme"`
	Status     string             `json:"status"`
	Suboptimal bool               `json:"suboptimal"`
	Candidates int                `json:"candidates"`
	Matches    []matchResponse    `json:"matches"`
	Metrics    metricsResponse    `json:"metrics"`
	Rejected   []rejectedResponse `json:"rejected"`
}

func NewMatchingResultResponse(res *engine.Result) matchingResultResponse {
	matches := make([]matchResponse, 0, len(res.Matches))
	for _, m := range res.Matches {
		matches = append(matches, matchResponse{
			DriverID:  m.DriverID,
			RiderID:   m.RiderID,
			Weight:    m.Weight,
			SavingsKm: m.SavingsKm,
			SharedKm:  m.Geometry.SharedRouteKm(),
			Route:     res.Route(m),
		})
	}
	rejected := make([]rejectedResponse, 0, len(res.Rejected))
	for _, r := range res.Rejected {
		rejected = append(rejected, rejectedResponse{
			ID:     r.ID,
			Role:   r.Role.String(),
			Field:  r.Field,
			Reason: r.Err.Error(),
		})
	}
	return matchingResultResponse{
		RunID:      res.RunID,
		Scheme:     res.Scheme.String(),
		Status:     res.Status.String(),
		Suboptimal: res.Suboptimal,
		Candidates: res.NumCandidates,
		Matches:    matches,
		Metrics: metricsResponse{
			MatchingRate:   res.Metrics.MatchingRate,
			AKS:            res.Metrics.AKS,
			Matches:        res.Metrics.Matches,
			MaxMatches:     res.MaxMatches,
			TotalSavingsKm: res.Metrics.TotalSavingsKm,
		},
		Rejected: rejected,
	}
}

type schemesResponse struct {
	Schemes []string `json:"schemes"`
	Default string   `json:"default"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
