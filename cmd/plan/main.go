// cmd/plan/main.go
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "plan",
		Usage: "Run supply planning over CSV inputs or seed them into Postgres",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Plan reorder policies, simulate inventory and source shortages from CSV inputs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "forecast",
						Usage:    "Path to the daily demand forecast CSV",
						Required: true,
						EnvVars:  []string{"FORECAST_CSV"},
					},
					&cli.StringFlag{
						Name:     "inventory",
						Usage:    "Path to the current stock CSV",
						Required: true,
						EnvVars:  []string{"INVENTORY_CSV"},
					},
					&cli.StringFlag{
						Name:    "suppliers",
						Usage:   "Path to the supplier pool CSV (enables shortage sourcing)",
						EnvVars: []string{"SUPPLIERS_CSV"},
					},
					&cli.StringFlag{
						Name:    "lots",
						Usage:   "Path to the lot-level stock CSV (enables expiry pricing)",
						EnvVars: []string{"LOTS_CSV"},
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory for plan output CSVs",
						Value:   "./data/plan_output",
						EnvVars: []string{"PLAN_OUTPUT_DIR"},
					},
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "Upload output CSVs to object storage after the run",
					},
				},
				Action: runPlan,
			},
			{
				Name:  "seed",
				Usage: "Load planning input CSVs into Postgres",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "forecast",
						Usage:   "Path to the daily demand forecast CSV",
						EnvVars: []string{"FORECAST_CSV"},
					},
					&cli.StringFlag{
						Name:    "inventory",
						Usage:   "Path to the current stock CSV",
						EnvVars: []string{"INVENTORY_CSV"},
					},
					&cli.StringFlag{
						Name:    "suppliers",
						Usage:   "Path to the supplier pool CSV",
						EnvVars: []string{"SUPPLIERS_CSV"},
					},
					&cli.StringFlag{
						Name:    "lots",
						Usage:   "Path to the lot-level stock CSV",
						EnvVars: []string{"LOTS_CSV"},
					},
				},
				Action: runSeed,
			},
			{
				Name:  "archives",
				Usage: "List archived plan runs in object storage, or pull one down",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Run prefix to filter on, e.g. 20260301T080000Z",
					},
					&cli.BoolFlag{
						Name:  "pull",
						Usage: "Download the matching outputs instead of listing them",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Directory for pulled outputs",
						Value: "./data/plan_output",
					},
				},
				Action: runArchives,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("plan command failed")
	}
}
