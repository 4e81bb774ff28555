package usecases

import (
	"context"

	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/participant"
)

type MatchingEngine interface {
	Run(ctx context.Context, drivers, riders []participant.Participant) (*engine.Result, error)
	// Wait blocks until solver work of finished runs has stopped.
	Wait()
}

// EngineBuilder creates an engine for one request's options.
type EngineBuilder func(opts engine.Options) (MatchingEngine, error)
