// cmd/plan/seed.go
package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/ingest"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func runSeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	worker := ingest.NewWorker(db, ingest.DefaultConfig())

	inputs := []struct {
		flag    string
		dataset ingest.Dataset
	}{
		{"forecast", ingest.ForecastDataset{}},
		{"inventory", ingest.InventoryDataset{}},
		{"suppliers", ingest.SupplierDataset{}},
		{"lots", ingest.LotDataset{}},
	}

	seeded := 0
	for _, input := range inputs {
		path := c.String(input.flag)
		if path == "" {
			continue
		}
		rows, err := worker.Run(c.Context, input.dataset, path)
		if err != nil {
			return fmt.Errorf("seed %s: %w", input.dataset.Name(), err)
		}
		logger.Log.Info().
			Str("dataset", input.dataset.Name()).
			Int("rows", rows).
			Msg("dataset seeded")
		seeded++
	}

	if seeded == 0 {
		return fmt.Errorf("no input files provided, nothing to seed")
	}
	return nil
}
