// Package engine runs the matching pipeline: repository, candidate pairs, assignment model,
// solve and interpretation.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/flow"
	"github.com/lintang-b-s/ridematch/pkg/geo"
	"github.com/lintang-b-s/ridematch/pkg/pairset"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/solver"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Scheme         weight.Scheme
	Distance       geo.DistanceFunc
	Backend        string
	TimeLimit      time.Duration
	MIPGap         float64
	Workers        int
	PickupRadiusKm float64
	Bounds         geo.Bounds
	StrictBounds   bool
	// KeepCandidates attaches the full candidate pair set to every Result.
	KeepCandidates bool
}

// DefaultOptions scores by distance savings over haversine distances with the hungarian backend.
func DefaultOptions() Options {
	return Options{
		Scheme:    weight.DistanceSavings,
		Distance:  geo.Haversine,
		Backend:   solver.Hungarian,
		TimeLimit: 30 * time.Second,
		MIPGap:    1e-4,
		Bounds:    geo.UnboundedBounds(),
	}
}

type Engine struct {
	opts      Options
	newSolver solver.Factory
	validator *participant.Validator
	log       *zap.Logger
	// background tracks solver work that outlived Solve.
	background sync.WaitGroup
}

func NewEngine(opts Options, log *zap.Logger) (*Engine, error) {
	newSolver, err := solver.NewFactory(opts.Backend)
	if err != nil {
		return nil, err
	}
	if opts.Distance == nil {
		opts.Distance = geo.Haversine
	}
	if opts.Backend == "" {
		opts.Backend = solver.Hungarian
	}
	return &Engine{
		opts:      opts,
		newSolver: newSolver,
		validator: participant.NewValidator(opts.Bounds, opts.StrictBounds),
		log:       log,
	}, nil
}

// Wait blocks until solver work started by Run or Compare has stopped, including solves
// abandoned at the time limit.
func (e *Engine) Wait() {
	e.background.Wait()
}

// WithSolverFactory replaces the backend, used to plug an external solver.
func (e *Engine) WithSolverFactory(name string, f solver.Factory) *Engine {
	e.opts.Backend = name
	e.newSolver = f
	return e
}

// Run matches drivers to riders under the configured scheme.
func (e *Engine) Run(ctx context.Context, drivers, riders []participant.Participant) (*Result, error) {
	runID := uuid.NewString()
	log := e.log.With(zap.String("run_id", runID))
	start := time.Now()

	repo := participant.NewRepository(drivers, riders, e.validator, log)

	ps, err := e.candidates(ctx, repo, e.opts.Scheme, log)
	if err != nil {
		return nil, err
	}

	res, err := e.solve(ctx, runID, repo, ps, log)
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	log.Info("matching run finished",
		zap.String("scheme", res.Scheme.String()),
		zap.Int("matches", res.Metrics.Matches),
		zap.Float64("matching_rate", res.Metrics.MatchingRate),
		zap.Float64("aks_km", res.Metrics.AKS),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Compare solves the same candidate set under every scheme in schemes. Feasibility does not
// depend on the scheme, so pairs are enumerated once and reweighted per scheme. Results are
// returned in the order of schemes.
func (e *Engine) Compare(ctx context.Context, drivers, riders []participant.Participant,
	schemes []weight.Scheme) ([]*Result, error) {
	if len(schemes) == 0 {
		return nil, nil
	}
	runID := uuid.NewString()
	log := e.log.With(zap.String("run_id", runID))

	repo := participant.NewRepository(drivers, riders, e.validator, log)
	base, err := e.candidates(ctx, repo, schemes[0], log)
	if err != nil {
		return nil, err
	}

	// reweight up front, each solve fills geometry of its own copy
	sets := make([]*pairset.PairSet, len(schemes))
	sets[0] = base
	for i := 1; i < len(schemes); i++ {
		sets[i] = base.Reweight(schemes[i], e.opts.Distance, repo.Drivers(), repo.Riders())
	}

	results := make([]*Result, len(schemes))
	g, gctx := errgroup.WithContext(ctx)
	for i, scheme := range schemes {
		g.Go(func() error {
			start := time.Now()
			ps := sets[i]
			schemeLog := log.With(zap.String("scheme", scheme.String()))
			res, err := e.solve(gctx, fmt.Sprintf("%s/%s", runID, scheme), repo, ps, schemeLog)
			if err != nil {
				return fmt.Errorf("scheme %s: %w", scheme, err)
			}
			res.Elapsed = time.Since(start)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) candidates(ctx context.Context, repo *participant.Repository, scheme weight.Scheme,
	log *zap.Logger) (*pairset.PairSet, error) {
	builder := pairset.NewBuilder(e.opts.Distance, scheme, log,
		pairset.WithWorkers(e.opts.Workers),
		pairset.WithPickupRadius(e.opts.PickupRadiusKm))
	return builder.Build(ctx, repo.Drivers(), repo.Riders())
}

func (e *Engine) solve(ctx context.Context, runID string, repo *participant.Repository,
	ps *pairset.PairSet, log *zap.Logger) (*Result, error) {
	res := &Result{
		RunID:         runID,
		Scheme:        ps.Scheme,
		Backend:       e.opts.Backend,
		Drivers:       repo.Drivers(),
		Riders:        repo.Riders(),
		Rejected:      repo.Rejected(),
		NumCandidates: ps.Len(),
	}
	if e.opts.KeepCandidates {
		res.Candidates = ps
	}

	if ps.Empty() {
		log.Info("no feasible pairs, skipping solver")
		res.setSolution(assignment.EmptySolution(ps.NumDrivers, ps.NumRiders))
		return res, nil
	}
	res.MaxMatches = flow.MaxCardinality(ps)

	buildStart := time.Now()
	s := e.newSolver()
	model := assignment.BuildModel(s, ps)
	log.Info("assignment model built",
		zap.Int("max_matches", res.MaxMatches),
		zap.Int("variables", model.NumVariables()),
		zap.Int("constraints", model.NumConstraints()),
		zap.Duration("elapsed", time.Since(buildStart)))

	solveStart := time.Now()
	status, err := s.Solve(ctx, assignment.Params{TimeLimit: e.opts.TimeLimit, MIPGap: e.opts.MIPGap})
	if w, ok := s.(assignment.Waiter); ok {
		e.background.Add(1)
		go func() {
			defer e.background.Done()
			w.Wait()
		}()
	}
	log.Info("solver finished",
		zap.String("backend", e.opts.Backend),
		zap.String("status", status.String()),
		zap.Duration("elapsed", time.Since(solveStart)))
	if err != nil && !status.HasSolution() {
		failure := &assignment.SolverFailure{
			Phase:      assignment.PhaseSolve,
			Candidates: ps.Len(),
			Status:     status,
			Err:        fmt.Errorf("%w: %w", assignment.ErrNoSolution, err),
		}
		log.Error("solver failed", zap.Error(failure))
		return nil, failure
	}
	if status == assignment.TimeLimitWithIncumbent {
		log.Warn("solver hit the time limit, result may be suboptimal",
			zap.Duration("time_limit", e.opts.TimeLimit))
	}

	sol, err := assignment.Interpret(model, s, status, e.opts.Distance, repo.Drivers(), repo.Riders())
	if err != nil {
		log.Error("interpreting solver result", zap.Error(err))
		return nil, err
	}
	res.setSolution(sol)
	return res, nil
}
