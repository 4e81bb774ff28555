package controllers

import (
	"context"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/participant"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

type MatchingService interface {
	Match(ctx context.Context, scheme weight.Scheme, timeLimit time.Duration,
		drivers, riders []participant.Participant) (*engine.Result, error)
}
