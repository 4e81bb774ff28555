package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/ridematch/pkg/config"
	"github.com/lintang-b-s/ridematch/pkg/http"
	http_router "github.com/lintang-b-s/ridematch/pkg/http/router"
	http_server "github.com/lintang-b-s/ridematch/pkg/http/server"
	"github.com/lintang-b-s/ridematch/pkg/http/usecases"
	"github.com/lintang-b-s/ridematch/pkg/logger"
	"github.com/lintang-b-s/ridematch/pkg/util"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"go.uber.org/zap"
)

var (
	configFile    = flag.String("config", "", "config file path (default ./data/config.yaml)")
	maxConcurrent = flag.Int64("max_concurrent", 2, "number of matching runs solved at the same time")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(*configFile); err != nil {
		logger.Fatal("reading config", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}
	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		logger.Fatal("engine options", zap.Error(err))
	}
	defaultScheme, _ := weight.ParseScheme(cfg.Matching.Scheme)

	matchingService := usecases.NewMatchingService(logger, engineOpts, *maxConcurrent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := http.NewServer(logger)
	err = api.Use(ctx,
		http_server.Config{Port: cfg.API.Port, Timeout: cfg.API.Timeout},
		http_router.Options{
			UseRateLimit:    cfg.API.UseRateLimit,
			RateLimit:       cfg.API.RateLimit,
			RateBurst:       cfg.API.RateBurst,
			DefaultScheme:   defaultScheme,
			MaxParticipants: cfg.API.MaxParticipants,
		},
		matchingService)
	if err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
	logger.Info("ridematch server stopped")
}
