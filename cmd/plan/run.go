// cmd/plan/run.go
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/expiry"
	"github.com/andresuchdata/supplyplan/internal/planning"
	"github.com/andresuchdata/supplyplan/internal/procurement"
	"github.com/andresuchdata/supplyplan/internal/repository/csvrepo"
	"github.com/andresuchdata/supplyplan/internal/storage"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func runPlan(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	forecasts := csvrepo.NewForecastRepository(c.String("forecast"))
	inventory := csvrepo.NewInventoryRepository(c.String("inventory"))

	series, err := forecasts.ListDemandSeries(ctx)
	if err != nil {
		return err
	}
	leadTimes, err := forecasts.LeadTimes(ctx)
	if err != nil {
		return err
	}
	stock, err := inventory.StartingStock(ctx)
	if err != nil {
		return err
	}

	result, err := planning.NewPlanner().Run(ctx, planning.PlanRequest{
		Series:              series,
		StartingStock:       stock,
		LeadTimeDays:        leadTimes,
		ServiceLevelZ:       cfg.Planning.ServiceLevelZ,
		DefaultLeadTimeDays: cfg.Planning.DefaultLeadTimeDays,
		Sim: planning.SimOptions{
			OrderUpToDays: cfg.Planning.OrderUpToDays,
			MinOrderQty:   cfg.Planning.MinOrderQty,
		},
		WorkerCount: cfg.Planning.WorkerCount,
	})
	if err != nil {
		return err
	}

	outputs := []string{}

	summaryPath := filepath.Join(outDir, "plan_summary.csv")
	if err := writeSummaryCSV(summaryPath, result); err != nil {
		return err
	}
	outputs = append(outputs, summaryPath)

	statesPath := filepath.Join(outDir, "simulation.csv")
	if err := writeStatesCSV(statesPath, result); err != nil {
		return err
	}
	outputs = append(outputs, statesPath)

	if suppliersPath := c.String("suppliers"); suppliersPath != "" {
		sourcingPath := filepath.Join(outDir, "sourcing.csv")
		if err := writeSourcingCSV(ctx, sourcingPath, result, suppliersPath, cfg.Planning); err != nil {
			return err
		}
		outputs = append(outputs, sourcingPath)
	}

	if lotsPath := c.String("lots"); lotsPath != "" {
		expiryPath := filepath.Join(outDir, "expiry.csv")
		if err := writeExpiryCSV(ctx, expiryPath, result, lotsPath); err != nil {
			return err
		}
		outputs = append(outputs, expiryPath)
	}

	logger.Log.Info().
		Int("pairs", len(result.Pairs)).
		Int("skipped", len(result.Skipped)).
		Strs("outputs", outputs).
		Msg("plan run complete")

	if c.Bool("archive") {
		return archiveOutputs(ctx, cfg.Storage, outputs)
	}
	return nil
}

func writeSummaryCSV(path string, result *planning.PlanResult) error {
	header := []string{
		"facility", "item", "avg_daily_demand", "demand_std_dev", "lead_time_days",
		"safety_stock", "reorder_point", "volatility_class", "cv",
		"min_days_of_cover", "reorder_triggered", "risk_level", "degraded",
	}

	rows := make([][]string, 0, len(result.Pairs))
	for _, pair := range result.Pairs {
		row := []string{pair.Key.Facility, pair.Key.Item}
		if p := pair.Reorder; p != nil {
			row = append(row,
				formatFloat(p.AvgDailyDemand), formatFloat(p.DemandStdDev), formatFloat(p.LeadTimeDays),
				formatFloat(p.SafetyStock), formatFloat(p.ReorderPoint))
		} else {
			row = append(row, "", "", "", "", "")
		}
		row = append(row, string(pair.Volatility.Class), formatFloat(pair.Volatility.CV))

		if worst, ok := planning.WorstCase(pair.States); ok && worst.CoverKnown {
			row = append(row, formatFloat(worst.DaysOfCover), strconv.FormatBool(worst.ReorderTriggered))
		} else if ok {
			row = append(row, "", strconv.FormatBool(worst.ReorderTriggered))
		} else {
			row = append(row, "", "false")
		}
		row = append(row, string(pair.Risk.Risk), strconv.FormatBool(pair.Degraded))
		rows = append(rows, row)
	}

	return writeCSV(path, header, rows)
}

func writeStatesCSV(path string, result *planning.PlanResult) error {
	header := []string{
		"facility", "item", "date", "demand", "on_hand", "outstanding_order_qty",
		"inventory_position", "days_of_cover", "reorder_triggered", "order_qty", "order_arrival",
	}

	var rows [][]string
	for _, pair := range result.Pairs {
		for _, s := range pair.States {
			cover := ""
			if s.CoverKnown {
				cover = formatFloat(s.DaysOfCover)
			}
			arrival := ""
			if s.OrderArrival != nil {
				arrival = s.OrderArrival.Format("2006-01-02")
			}
			rows = append(rows, []string{
				s.Key.Facility, s.Key.Item, s.Date.Format("2006-01-02"),
				formatFloat(s.Demand), formatFloat(s.OnHand), formatFloat(s.OutstandingQty),
				formatFloat(s.InventoryPosition), cover,
				strconv.FormatBool(s.ReorderTriggered), formatFloat(s.OrderQty), arrival,
			})
		}
	}

	return writeCSV(path, header, rows)
}

func writeSourcingCSV(ctx context.Context, path string, result *planning.PlanResult, suppliersPath string, cfg config.PlanningConfig) error {
	suppliers := csvrepo.NewSupplierRepository(suppliersPath)
	engine := procurement.NewShortageSourcingEngine()

	header := []string{
		"facility", "item", "trigger_reason", "required_qty", "optimizer_status",
		"supplier_id", "supplier_name", "ordered_qty", "price_per_unit",
	}

	var rows [][]string
	for _, pair := range result.Pairs {
		worst, ok := planning.WorstCase(pair.States)
		if !ok || !worst.CoverKnown {
			continue
		}

		requiredQty := 0.0
		if pair.Reorder != nil {
			requiredQty = pair.Reorder.AvgDailyDemand * float64(cfg.OrderUpToDays)
		}

		sctx := procurement.ShortageContext{
			Key:              pair.Key,
			DaysOfCover:      worst.DaysOfCover,
			RequiredQty:      requiredQty,
			TriggerCoverDays: cfg.TriggerCoverDays,
		}
		shortage, _ := engine.Evaluate(sctx)
		if !shortage {
			continue
		}

		offers, err := suppliers.GetSuppliers(ctx, pair.Key)
		if err != nil {
			return err
		}
		if len(offers) == 0 {
			logger.Log.Warn().
				Str("facility", pair.Key.Facility).Str("item", pair.Key.Item).
				Msg("shortage with no supplier pool, skipping")
			continue
		}

		plan, err := engine.EmergencyPlan(ctx, sctx, offers)
		if err != nil {
			return err
		}

		for _, line := range plan.Allocation.Lines {
			rows = append(rows, []string{
				pair.Key.Facility, pair.Key.Item,
				plan.Summary.TriggerReason, formatFloat(requiredQty), plan.Summary.OptimizerStatus,
				line.SupplierID, line.SupplierName,
				formatFloat(line.OrderedQty), formatFloat(line.PricePerUnit),
			})
		}
	}

	return writeCSV(path, header, rows)
}

func writeExpiryCSV(ctx context.Context, path string, result *planning.PlanResult, lotsPath string) error {
	lots := csvrepo.NewLotRepository(lotsPath)
	engine := expiry.NewEngine()
	today := time.Now().UTC()

	header := []string{
		"facility", "item", "total_qty", "expiring_30", "expiring_60", "expiring_90",
		"pct_at_risk_90", "value_at_risk_90", "risk_class",
	}

	var rows [][]string
	for _, pair := range result.Pairs {
		pairLots, err := lots.GetLots(ctx, pair.Key)
		if err != nil {
			return err
		}
		if len(pairLots) == 0 {
			continue
		}

		r := engine.Compute(pairLots, today)
		rows = append(rows, []string{
			pair.Key.Facility, pair.Key.Item,
			formatFloat(r.TotalQty), formatFloat(r.Expiring30), formatFloat(r.Expiring60),
			formatFloat(r.Expiring90), formatFloat(r.PctAtRisk90),
			r.ValueAtRisk.StringFixed(2), r.RiskClass,
		})
	}

	return writeCSV(path, header, rows)
}

func archiveOutputs(ctx context.Context, cfg config.StorageConfig, outputs []string) error {
	if !cfg.Enabled {
		logger.Log.Warn().Msg("archive requested but storage is disabled, skipping upload")
		return nil
	}

	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return err
	}

	prefix := "plans/" + time.Now().UTC().Format("20060102T150405Z")
	for _, path := range outputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s for archive: %w", path, err)
		}
		key := prefix + "/" + filepath.Base(path)
		if err := client.UploadObject(ctx, key, data); err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Msg("archived plan output")
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
