package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/pairset"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

type Result struct {
	RunID   string
	Scheme  weight.Scheme
	Backend string

	// accepted participants, in input order
	Drivers  []participant.Participant
	Riders   []participant.Participant
	Rejected []*participant.DataError

	Matches   []assignment.Match
	Metrics   assignment.Metrics
	Status    assignment.Status
	Objective float64
	// Suboptimal is set when the solver stopped at its time limit with an incumbent.
	Suboptimal bool

	NumCandidates int

	// MaxMatches is the maximum cardinality matching of the candidate graph.
	MaxMatches int
	Candidates *pairset.PairSet
	Elapsed    time.Duration
}

func (r *Result) setSolution(sol *assignment.Solution) {
	r.Matches = sol.Matches
	r.Metrics = sol.Metrics
	r.Status = sol.Status
	r.Objective = sol.Objective
	r.Suboptimal = sol.Suboptimal()
}

// MatchRoute is the shared route of a match encoded as a polyline.
type MatchRoute struct {
	DriverID int64  `json:"driver_id"`
	RiderID  int64  `json:"rider_id"`
	Polyline string `json:"polyline"`
}

// Route returns the polyline of driver origin -> rider origin -> rider destination ->
// driver destination for m.
func (r *Result) Route(m assignment.Match) string {
	return geo.PolylineFromCoords(weight.Route(r.Drivers[m.DriverIdx], r.Riders[m.RiderIdx]))
}

func (r *Result) Routes() []MatchRoute {
	routes := make([]MatchRoute, 0, len(r.Matches))
	for _, m := range r.Matches {
		routes = append(routes, MatchRoute{DriverID: m.DriverID, RiderID: m.RiderID, Polyline: r.Route(m)})
	}
	return routes
}

// Report writes the metrics block.
func (r *Result) Report(w io.Writer) error {
	rule := strings.Repeat("=", 50)
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", rule)
	fmt.Fprintf(&sb, "Performance Metrics (%s):\n", r.Scheme)
	fmt.Fprintf(&sb, "%s\n", rule)
	fmt.Fprintf(&sb, "Total Matches: %d\n", r.Metrics.Matches)
	fmt.Fprintf(&sb, "Matching Rate (MR): %.2f%%\n", r.Metrics.MatchingRate*100)
	fmt.Fprintf(&sb, "Additional Kilometers Saved (AKS): %.2f km\n", r.Metrics.AKS)
	if r.Suboptimal {
		fmt.Fprintf(&sb, "Status: %s (time limit reached)\n", r.Status)
	}
	fmt.Fprintf(&sb, "%s\n", rule)
	_, err := io.WriteString(w, sb.String())
	return err
}

// CompareTable writes one row per result.
func CompareTable(w io.Writer, results []*Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %8s %8s %8s %10s %10s\n", "scheme", "matches", "max", "MR", "AKS km", "status")
	for _, r := range results {
		fmt.Fprintf(&sb, "%-20s %8d %8d %7.2f%% %10.2f %10s\n",
			r.Scheme, r.Metrics.Matches, r.MaxMatches, r.Metrics.MatchingRate*100, r.Metrics.AKS, r.Status)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
