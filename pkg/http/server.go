package http

import (
	"context"

	http_router "github.com/lintang-b-s/ridematch/pkg/http/router"
	"github.com/lintang-b-s/ridematch/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/ridematch/pkg/http/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use serves the matching API and blocks until ctx is cancelled or the server fails.
func (s *Server) Use(
	ctx context.Context,
	config http_server.Config,
	opts http_router.Options,
	matchingService controllers.MatchingService,
) error {
	api := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, config, opts, matchingService)
	})
	return g.Wait()
}
