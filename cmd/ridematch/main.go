package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ridematch",
		Usage: "Match drivers to riders on a ridesharing dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "specify the config file (default ./data/config.yaml)",
			},
		},
		Commands: []*cli.Command{
			runCmd,
			compareCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}
