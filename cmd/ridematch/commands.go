package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
	"github.com/lintang-b-s/ridematch/pkg/config"
	"github.com/lintang-b-s/ridematch/pkg/engine"
	"github.com/lintang-b-s/ridematch/pkg/ingest"
	"github.com/lintang-b-s/ridematch/pkg/logger"
	"github.com/lintang-b-s/ridematch/pkg/util"
	"github.com/lintang-b-s/ridematch/pkg/weight"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var datasetFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "data",
		Usage: "specify the input dataset csv",
	},
	&cli.IntFlag{
		Name:  "drivers",
		Usage: "number of earliest driver announcements to keep (0 keeps all)",
	},
	&cli.IntFlag{
		Name:  "riders",
		Usage: "number of earliest rider announcements to keep (0 keeps all)",
	},
	&cli.StringFlag{
		Name:  "backend",
		Usage: "specify the solver backend (hungarian, simplex)",
	},
	&cli.DurationFlag{
		Name:  "time-limit",
		Usage: "solver time limit",
	},
	&cli.Float64Flag{
		Name:  "pickup-radius",
		Usage: "drop pairs whose origins are further apart than this (km), 0 disables",
	},
}

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Solve one matching and print its metrics",
	Aliases: []string{"r"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "scheme",
			Usage: "specify the weighting scheme (unweighted, distance_savings, distance_proximity, adjusted_proximity)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the matches as json to this file",
		},
	}, datasetFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		opts, err := cfg.EngineOptions()
		if err != nil {
			return err
		}
		ds, err := ingest.LoadFile(cfg.Ingest.Path, cfg.IngestOptions(), log)
		if err != nil {
			return err
		}
		eng, err := engine.NewEngine(opts, log)
		if err != nil {
			return err
		}

		res, err := eng.Run(ctx.Context, ds.Drivers, ds.Riders)
		if err != nil {
			return err
		}
		if err := res.Report(os.Stdout); err != nil {
			return err
		}
		if out := ctx.String("out"); out != "" {
			return writeMatches(out, res)
		}
		return nil
	},
}

var compareCmd = &cli.Command{
	Name:    "compare",
	Usage:   "Solve the same candidate set under every weighting scheme",
	Aliases: []string{"c"},
	Flags:   datasetFlags,
	Action: func(ctx *cli.Context) error {
		cfg, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		opts, err := cfg.EngineOptions()
		if err != nil {
			return err
		}
		ds, err := ingest.LoadFile(cfg.Ingest.Path, cfg.IngestOptions(), log)
		if err != nil {
			return err
		}
		eng, err := engine.NewEngine(opts, log)
		if err != nil {
			return err
		}

		start := time.Now()
		results, err := eng.Compare(ctx.Context, ds.Drivers, ds.Riders, weight.Schemes())
		if err != nil {
			return err
		}
		for _, res := range results {
			if err := res.Report(os.Stdout); err != nil {
				return err
			}
		}
		if err := engine.CompareTable(os.Stdout, results); err != nil {
			return err
		}
		log.Info("comparison finished", zap.Duration("elapsed", time.Since(start)))
		return nil
	},
}

// setup loads the config and lets command line flags override it.
func setup(ctx *cli.Context) (*config.Config, *zap.Logger, error) {
	if err := util.ReadConfig(ctx.String("config")); err != nil {
		return nil, nil, err
	}

	overrides := map[string]string{
		"data":          "ingest.path",
		"drivers":       "ingest.max_drivers",
		"riders":        "ingest.max_riders",
		"backend":       "solver.backend",
		"time-limit":    "solver.time_limit",
		"pickup-radius": "matching.pickup_radius_km",
		"scheme":        "matching.scheme",
	}
	for flag, key := range overrides {
		if ctx.IsSet(flag) {
			viper.Set(key, ctx.Value(flag))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

type matchOutput struct {
	RunID   string              `json:"run_id"`
	Scheme  string              `json:"scheme"`
	Status  string              `json:"status"`
	Metrics assignment.Metrics  `json:"metrics"`
	Matches []engine.MatchRoute `json:"matches"`
}

func writeMatches(path string, res *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(matchOutput{
		RunID:   res.RunID,
		Scheme:  res.Scheme.String(),
		Status:  res.Status.String(),
		Metrics: res.Metrics,
		Matches: res.Routes(),
	})
}
