// Package config maps the viper settings onto typed options for the engine, the dataset
// loader and the HTTP API.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/ingest"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"github.com/spf13/viper"
)

type Config struct {
	Matching MatchingConfig `mapstructure:"matching"`
	Solver   SolverConfig   `mapstructure:"solver"`
	Bounds   BoundsConfig   `mapstructure:"bounds"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	API      APIConfig      `mapstructure:"api"`
}

type MatchingConfig struct {
	Scheme         string  `mapstructure:"scheme" validate:"required"`
	Distance       string  `mapstructure:"distance" validate:"oneof=haversine s2 equirectangular"`
	Workers        int     `mapstructure:"workers" validate:"gte=0"`
	PickupRadiusKm float64 `mapstructure:"pickup_radius_km" validate:"gte=0"`
	KeepCandidates bool    `mapstructure:"keep_candidates"`
}

type SolverConfig struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=hungarian simplex"`
	TimeLimit time.Duration `mapstructure:"time_limit" validate:"gte=0"`
	MIPGap    float64       `mapstructure:"mip_gap" validate:"gte=0,lte=1"`
}

// BoundsConfig is the service area. All zero means unbounded.
type BoundsConfig struct {
	MinLat float64 `mapstructure:"min_lat" validate:"gte=-90,lte=90"`
	MinLon float64 `mapstructure:"min_lon" validate:"gte=-180,lte=180"`
	MaxLat float64 `mapstructure:"max_lat" validate:"gte=-90,lte=90"`
	MaxLon float64 `mapstructure:"max_lon" validate:"gte=-180,lte=180"`
	Strict bool    `mapstructure:"strict"`
}

type IngestConfig struct {
	Path             string `mapstructure:"path"`
	RiderIDThreshold int64  `mapstructure:"rider_id_threshold" validate:"gt=0"`
	MaxDrivers       int    `mapstructure:"max_drivers" validate:"gte=0"`
	MaxRiders        int    `mapstructure:"max_riders" validate:"gte=0"`
}

type APIConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UseRateLimit    bool          `mapstructure:"use_rate_limit"`
	RateLimit       float64       `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst       int           `mapstructure:"rate_burst" validate:"gte=0"`
	MaxParticipants int           `mapstructure:"max_participants" validate:"gt=0"`
}

func setDefaults() {
	viper.SetDefault("matching.scheme", weight.DistanceSavings.String())
	viper.SetDefault("matching.distance", geo.MetricHaversine)
	viper.SetDefault("matching.workers", 0)
	viper.SetDefault("matching.pickup_radius_km", 0.0)
	viper.SetDefault("matching.keep_candidates", false)

	viper.SetDefault("solver.backend", "hungarian")
	viper.SetDefault("solver.time_limit", "30s")
	viper.SetDefault("solver.mip_gap", 1e-4)

	viper.SetDefault("bounds.min_lat", 0.0)
	viper.SetDefault("bounds.min_lon", 0.0)
	viper.SetDefault("bounds.max_lat", 0.0)
	viper.SetDefault("bounds.max_lon", 0.0)
	viper.SetDefault("bounds.strict", false)

	viper.SetDefault("ingest.path", "./data/Ridesharing_S_1.csv")
	viper.SetDefault("ingest.rider_id_threshold", 100000)
	viper.SetDefault("ingest.max_drivers", 500)
	viper.SetDefault("ingest.max_riders", 500)

	viper.SetDefault("api.port", 6060)
	viper.SetDefault("api.timeout", "120s")
	viper.SetDefault("api.use_rate_limit", false)
	viper.SetDefault("api.rate_limit", 5.0)
	viper.SetDefault("api.rate_burst", 10)
	viper.SetDefault("api.max_participants", 5000)
}

// Load reads the current viper state, call util.ReadConfig first to pick up the file
// and the environment.
func Load() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Matching.Scheme = strings.TrimSpace(cfg.Matching.Scheme)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := weight.ParseScheme(c.Matching.Scheme); err != nil {
		return fmt.Errorf("invalid config: matching.scheme: %w", err)
	}
	if !c.Bounds.unbounded() && (c.Bounds.MinLat > c.Bounds.MaxLat || c.Bounds.MinLon > c.Bounds.MaxLon) {
		return fmt.Errorf("invalid config: bounds min exceeds max")
	}
	return nil
}

func (b BoundsConfig) unbounded() bool {
	return b.MinLat == 0 && b.MinLon == 0 && b.MaxLat == 0 && b.MaxLon == 0
}

func (b BoundsConfig) Area() geo.Bounds {
	if b.unbounded() {
		return geo.UnboundedBounds()
	}
	return geo.NewBounds(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

func (c *Config) EngineOptions() (engine.Options, error) {
	scheme, err := weight.ParseScheme(c.Matching.Scheme)
	if err != nil {
		return engine.Options{}, err
	}
	dist, ok := geo.DistanceByName(c.Matching.Distance)
	if !ok {
		return engine.Options{}, fmt.Errorf("unknown distance metric %q", c.Matching.Distance)
	}
	return engine.Options{
		Scheme:         scheme,
		Distance:       dist,
		Backend:        c.Solver.Backend,
		TimeLimit:      c.Solver.TimeLimit,
		MIPGap:         c.Solver.MIPGap,
		Workers:        c.Matching.Workers,
		PickupRadiusKm: c.Matching.PickupRadiusKm,
		Bounds:         c.Bounds.Area(),
		StrictBounds:   c.Bounds.Strict,
		KeepCandidates: c.Matching.KeepCandidates,
	}, nil
}

func (c *Config) IngestOptions() ingest.Options {
	return ingest.Options{
		RiderIDThreshold: c.Ingest.RiderIDThreshold,
		MaxDrivers:       c.Ingest.MaxDrivers,
		MaxRiders:        c.Ingest.MaxRiders,
	}
}
