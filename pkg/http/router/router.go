package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	_ "github.com/lintang-b-s/ridematch/docs"
	"github.com/lintang-b-s/ridematch/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/ridematch/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/ridematch/pkg/http/server"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

type Options struct {
	UseRateLimit    bool
	RateLimit       float64
	RateBurst       int
	DefaultScheme   weight.Scheme
	MaxParticipants int
}

// Handler wires the routes and the middleware chain.
func (api *API) Handler(opts Options, matchingService controllers.MatchingService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Run-Id"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.GET("/doc/*any", swaggerHandler)

	group := router_helper.NewRouteGroup(router, "/api")
	matchingRoutes := controllers.New(matchingService, opts.DefaultScheme, opts.MaxParticipants, api.log)
	matchingRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if opts.UseRateLimit {
		mwChain = append(mwChain, Limit(opts.RateLimit, opts.RateBurst))
	}
	return alice.New(mwChain...).Then(router)
}

//	@title			Ridematch API
//	@version		1.0
//	@description	Matches rideshare drivers to riders on announced trips.

//	@contact.name	Lintang Birda Saputra
//	@contact.email	lintang.birda.saputra@mail.ugm.ac.id

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
//
// Run serves until ctx is done or the listener fails.
func (api *API) Run(ctx context.Context, config http_server.Config, opts Options,
	matchingService controllers.MatchingService) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(opts, matchingService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		api.log.Error("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
