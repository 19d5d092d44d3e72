// cmd/plantbalance/main.go
//
// Entry point for the plant balance CLI.
//
// Flow:
// 1. Load settings, plant configuration, and production plan
// 2. Filter the plan to the requested window and validate references
// 3. Simulate day by day and aggregate the horizon summary
// 4. Print the text report, optionally export xlsx or open the dashboard

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kingrea/plantbalance/internal/analytics"
	"github.com/kingrea/plantbalance/internal/catalog"
	"github.com/kingrea/plantbalance/internal/config"
	"github.com/kingrea/plantbalance/internal/export"
	"github.com/kingrea/plantbalance/internal/logging"
	"github.com/kingrea/plantbalance/internal/model"
	"github.com/kingrea/plantbalance/internal/plan"
	"github.com/kingrea/plantbalance/internal/report"
	"github.com/kingrea/plantbalance/internal/sim"
	"github.com/kingrea/plantbalance/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "plant configuration JSON file (required)")
	planPath := flag.String("plan", "", "production plan JSON file (required)")
	startFlag := flag.String("start-date", "", "inclusive window start (YYYY-MM-DD)")
	endFlag := flag.String("end-date", "", "inclusive window end (YYYY-MM-DD)")
	outputPath := flag.String("output", "", "write the report to this file in addition to stdout")
	decimals := flag.Int("decimals", -1, "decimal places for quantities (overrides the settings file)")
	excelPath := flag.String("excel", "", "export an xlsx workbook to this path")
	settingsPath := flag.String("settings", "", "settings file (default "+config.DefaultFile+" if present)")
	dashboard := flag.Bool("tui", false, "open the interactive dashboard instead of printing the report")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *configPath == "" || *planPath == "" {
		die("--config and --plan are required")
	}

	log := logging.New(*verbose)

	settingsFile, explicit := config.DefaultFile, false
	if *settingsPath != "" {
		settingsFile, explicit = *settingsPath, true
	}
	settings, err := config.Load(settingsFile, explicit)
	if err != nil {
		die("load settings: %v", err)
	}
	if *decimals >= 0 {
		settings.Decimals = *decimals
	}
	if *outputPath != "" {
		settings.Output = *outputPath
	}

	window, err := parseWindow(*startFlag, *endFlag)
	if err != nil {
		die("%v", err)
	}

	plant, err := catalog.Load(*configPath)
	if err != nil {
		die("%v", err)
	}
	log.Debugf("catalog: %d resources, %d machines, %d products",
		len(plant.Resources), len(plant.Machines), len(plant.Products))

	fullPlan, err := plan.Load(*planPath)
	if err != nil {
		die("%v", err)
	}
	filtered, err := fullPlan.Filter(window)
	if err != nil {
		die("%v", err)
	}
	if err := filtered.Validate(plant); err != nil {
		die("plan validation failed:\n%v", err)
	}
	log.Debugf("plan: %d of %d orders in window", len(filtered.Orders), len(fullPlan.Orders))

	result, err := sim.Simulate(plant, filtered.Orders, window)
	if err != nil {
		die("%v", err)
	}
	summary := sim.Summarize(result)
	for _, stat := range summary.Utilization {
		if stat.OverCapacity {
			log.Warnf("over capacity: %s (%s) on key %s", stat.MachineName, stat.MachineID, stat.Key)
		}
	}

	if *excelPath != "" {
		if err := export.WriteWorkbook(*excelPath, result, summary); err != nil {
			die("%v", err)
		}
		log.Debugf("workbook written to %s", *excelPath)
	}

	if *dashboard {
		series, err := analytics.BuildHourlySeries(result, settings.SlotsPerDay)
		if err != nil {
			die("%v", err)
		}
		if err := tui.Run(result, summary, series, int32(settings.Decimals)); err != nil {
			die("%v", err)
		}
		return
	}

	text := report.Format(result, summary, int32(settings.Decimals))
	if settings.Output != "" {
		if err := os.WriteFile(settings.Output, []byte(text+"\n"), 0o644); err != nil {
			die("write report: %v", err)
		}
	}
	fmt.Println(text)
}

func parseWindow(start, end string) (model.DateRange, error) {
	var window model.DateRange
	if start != "" {
		parsed, err := model.ParseDate(start)
		if err != nil {
			return window, fmt.Errorf("--start-date: %w", err)
		}
		window.Start = parsed
	}
	if end != "" {
		parsed, err := model.ParseDate(end)
		if err != nil {
			return window, fmt.Errorf("--end-date: %w", err)
		}
		window.End = parsed
	}
	return window, window.Validate()
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
