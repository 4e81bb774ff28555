package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/util"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type MatchingService struct {
	log        *zap.Logger
	base       engine.Options
	newEngine  EngineBuilder
	maxTimeout time.Duration
	// solves admits a bounded number of concurrent matching runs.
	solves *semaphore.Weighted
}

func NewMatchingService(log *zap.Logger, base engine.Options, maxConcurrent int64) *MatchingService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &MatchingService{
		log:  log,
		base: base,
		newEngine: func(opts engine.Options) (MatchingEngine, error) {
			return engine.NewEngine(opts, log)
		},
		maxTimeout: base.TimeLimit,
		solves:     semaphore.NewWeighted(maxConcurrent),
	}
}

// WithEngineBuilder replaces how per-request engines are built.
func (ms *MatchingService) WithEngineBuilder(b EngineBuilder) *MatchingService {
	ms.newEngine = b
	return ms
}

// Match runs one matching request. A zero timeLimit keeps the configured limit; larger
// values are capped by it.
func (ms *MatchingService) Match(ctx context.Context, scheme weight.Scheme, timeLimit time.Duration,
	drivers, riders []participant.Participant) (*engine.Result, error) {
	opts := ms.base
	opts.Scheme = scheme
	if timeLimit > 0 && (ms.maxTimeout <= 0 || timeLimit < ms.maxTimeout) {
		opts.TimeLimit = timeLimit
	}

	eng, err := ms.newEngine(opts)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "building matching engine")
	}

	if err := ms.solves.Acquire(ctx, 1); err != nil {
		return nil, util.WrapErrorf(err, util.ErrTimeout, "waiting for a free solver")
	}
	// hold the slot until abandoned solver work stops
	defer func() {
		go func() {
			eng.Wait()
			ms.solves.Release(1)
		}()
	}()

	res, err := eng.Run(ctx, drivers, riders)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, util.WrapErrorf(err, util.ErrTimeout, "matching run aborted")
		}
		var failure *assignment.SolverFailure
		if errors.As(err, &failure) {
			ms.log.Error("matching run failed", zap.Error(err))
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "solver failed in %s phase", failure.Phase)
		}
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "matching run failed")
	}
	return res, nil
}
