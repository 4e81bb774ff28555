package weight

import (
	"fmt"
	"strings"
)

// Scheme selects the objective coefficient of a candidate pair.
type Scheme uint8

const (
	// Unweighted maximizes the number of matches.
	Unweighted Scheme = iota
	// DistanceSavings is the detour distance saved versus two independent trips.
	DistanceSavings
	// ProximityIndex favours pairs with comparable trip lengths.
	ProximityIndex
	// AdjustedProximity is ProximityIndex scaled by driver trip / shared route.
	AdjustedProximity
)

var schemeNames = map[Scheme]string{
	Unweighted:        "unweighted",
	DistanceSavings:   "distance_savings",
	ProximityIndex:    "distance_proximity",
	AdjustedProximity: "adjusted_proximity",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scheme(%d)", uint8(s))
}

// Schemes lists every scheme in declaration order.
func Schemes() []Scheme {
	return []Scheme{Unweighted, DistanceSavings, ProximityIndex, AdjustedProximity}
}

func ParseScheme(name string) (Scheme, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch normalized {
	case "", "unweighted", "count":
		return Unweighted, nil
	case "distance_savings", "savings":
		return DistanceSavings, nil
	case "distance_proximity", "proximity_index", "proximity":
		return ProximityIndex, nil
	case "adjusted_proximity", "adjusted_proximity_index":
		return AdjustedProximity, nil
	}
	return Unweighted, fmt.Errorf("unknown weighting scheme %q", name)
}

// NeedsGeometry reports whether the scheme reads the detour geometry of a pair.
func (s Scheme) NeedsGeometry() bool {
	return s == DistanceSavings || s == AdjustedProximity
}

func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
