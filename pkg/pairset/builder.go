package pairset

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/concurrent"
	"github.com/lintang-b-s/ridematch/pkg/feasibility"
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/spatialindex"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"go.uber.org/zap"
)

type Builder struct {
	dist         geo.DistanceFunc
	filter       *feasibility.Filter
	scheme       weight.Scheme
	score        weight.Func
	workers      int
	pickupRadius float64
	log          *zap.Logger
}

type Option func(*Builder)

// WithPickupRadius drops pairs whose origins are more than km apart before the
// feasibility check. km <= 0 disables the prefilter.
func WithPickupRadius(km float64) Option {
	return func(b *Builder) {
		b.pickupRadius = km
	}
}

// WithWorkers sets the number of driver rows evaluated concurrently. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

func NewBuilder(dist geo.DistanceFunc, scheme weight.Scheme, log *zap.Logger, opts ...Option) *Builder {
	b := &Builder{
		dist:   dist,
		filter: feasibility.NewFilter(dist),
		scheme: scheme,
		score:  weight.For(scheme),
		log:    log,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers <= 0 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b
}

func (b *Builder) Scheme() weight.Scheme {
	return b.scheme
}

type row struct {
	driverIdx int
	pairs     []Pair
}

// Build enumerates every (driver, rider) combination. Rows are evaluated concurrently,
// one job per driver, and merged in driver order.
func (b *Builder) Build(ctx context.Context, drivers, riders []participant.Participant) (*PairSet, error) {
	start := time.Now()
	ps := &PairSet{
		Scheme:     b.scheme,
		NumDrivers: len(drivers),
		NumRiders:  len(riders),
	}
	if len(drivers) == 0 || len(riders) == 0 {
		b.log.Info("empty side, no candidate pairs",
			zap.Int("drivers", len(drivers)), zap.Int("riders", len(riders)))
		return ps, nil
	}

	var index *spatialindex.Rtree
	if b.pickupRadius > 0 {
		origins := make([]geo.Coordinate, len(riders))
		for i, r := range riders {
			origins[i] = r.Origin
		}
		index = spatialindex.NewRtree()
		index.Build(origins, b.log)
	}

	jobs := make([]int, len(drivers))
	for i := range jobs {
		jobs[i] = i
	}

	rows := concurrent.Map(ctx, b.workers, jobs, func(ctx context.Context, driverIdx int) row {
		return b.buildRow(driverIdx, drivers[driverIdx], riders, index)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].driverIdx < rows[j].driverIdx
	})
	total := 0
	for _, r := range rows {
		total += len(r.pairs)
	}
	ps.Pairs = make([]Pair, 0, total)
	for _, r := range rows {
		ps.Pairs = append(ps.Pairs, r.pairs...)
	}

	b.log.Info("candidate pairs built",
		zap.String("scheme", b.scheme.String()),
		zap.Int("drivers", len(drivers)),
		zap.Int("riders", len(riders)),
		zap.Int("evaluated", len(drivers)*len(riders)),
		zap.Int("candidates", len(ps.Pairs)),
		zap.Duration("elapsed", time.Since(start)))
	return ps, nil
}

func (b *Builder) buildRow(driverIdx int, driver participant.Participant, riders []participant.Participant,
	index *spatialindex.Rtree) row {
	r := row{driverIdx: driverIdx}

	candidates := b.riderCandidates(driver, riders, index)
	for _, riderIdx := range candidates {
		rider := riders[riderIdx]
		rv, ok := b.filter.Evaluate(driver, rider)
		if !ok {
			continue
		}
		if b.pickupRadius > 0 && rv.PickupKm > b.pickupRadius {
			continue
		}

		pair := Pair{
			DriverIdx: driverIdx,
			RiderIdx:  riderIdx,
			DriverID:  driver.ID,
			RiderID:   rider.ID,
			DriverKm:  driver.DistanceKm,
			RiderKm:   rider.DistanceKm,
		}
		if b.scheme.NeedsGeometry() {
			pair.Geometry = weight.Geometry{
				PickupKm:    rv.PickupKm,
				RiderTripKm: b.dist(rider.Origin, rider.Destination),
				DropoffKm:   b.dist(rider.Destination, driver.Destination),
			}
			pair.HasGeometry = true
		}
		pair.Weight = b.score(pair.DriverKm, pair.RiderKm, pair.Geometry)
		r.pairs = append(r.pairs, pair)
	}
	return r
}

// riderCandidates lists rider indices in ascending order.
func (b *Builder) riderCandidates(driver participant.Participant, riders []participant.Participant,
	index *spatialindex.Rtree) []int {
	if index == nil {
		all := make([]int, len(riders))
		for i := range all {
			all[i] = i
		}
		return all
	}
	near := index.SearchWithinRadius(driver.Origin.Lat, driver.Origin.Lon, b.pickupRadius)
	sort.Ints(near)
	return near
}
