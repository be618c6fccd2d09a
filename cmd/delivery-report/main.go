package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deliverypulse/internal/analytics"
	"deliverypulse/internal/config"
	"deliverypulse/internal/dataset"
	"deliverypulse/internal/exporter"
	"deliverypulse/internal/infrastructure"
)

func main() {
	datasetPath := flag.String("data", "", "path to the orders CSV (defaults to configured dataset path)")
	outputDir := flag.String("out", "", "output directory for report files (defaults to configured reports dir)")
	regionsFlag := flag.String("regions", "", "comma-separated customer state codes to include (default all)")
	fromFlag := flag.String("from", "", "start of the purchase date range, YYYY-MM-DD (default dataset start)")
	toFlag := flag.String("to", "", "end of the purchase date range, YYYY-MM-DD (default dataset end)")
	format := flag.String("format", "csv", "output format: csv, xlsx, or json")
	topCategories := flag.Int("top", 0, "number of most delayed categories to rank (defaults to configured value)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	if *datasetPath == "" {
		*datasetPath = cfg.Dataset.Path
	}
	if *outputDir == "" {
		*outputDir = cfg.GetOutputDir()
	}
	if *topCategories <= 0 {
		*topCategories = cfg.Analytics.TopCategories
	}

	logger.Info("Loading order data", "path", *datasetPath)
	table, err := dataset.Load(*datasetPath, logger)
	if err != nil {
		logger.Error("Failed to load order data", "error", err, "path", *datasetPath)
		os.Exit(1)
	}
	if table.Len() == 0 {
		logger.Error("No orders found in CSV", "path", *datasetPath)
		os.Exit(1)
	}
	logger.Info("Loaded order data", "rows", table.Len())

	dims := dataset.Describe(table)

	regions, err := parseRegions(*regionsFlag)
	if err != nil {
		logger.Error("Invalid regions flag", "error", err)
		os.Exit(1)
	}
	if len(regions) == 0 {
		regions = dims.Regions
	}

	dateRange, err := parseDateRange(*fromFlag, *toFlag, dims)
	if err != nil {
		logger.Error("Invalid date range", "error", err)
		os.Exit(1)
	}

	filtered, err := analytics.Filter(table, regions, dateRange)
	if err != nil {
		logger.Error("Failed to filter orders", "error", err)
		os.Exit(1)
	}
	logger.Info("Filtered orders",
		"rows", filtered.Len(),
		"regions", len(regions),
		"from", dateRange.Start.Format("2006-01-02"),
		"to", dateRange.End.Format("2006-01-02"))

	engine := analytics.NewEngine(logger)
	engine.SetTopCategories(*topCategories)

	ctx := context.Background()
	views, err := engine.ComputeAllViews(ctx, filtered)
	if err != nil {
		logger.Error("Failed to compute report views", "error", err)
		os.Exit(1)
	}
	for view, verr := range views.Errors {
		logger.Warn("View computation failed", "view", view, "error", verr)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	files, err := writeReport(views, *format, *outputDir, logger)
	if err != nil {
		logger.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	logger.Info("Report generated successfully",
		"format", *format,
		"files", len(files))

	printSummary(views, files)
}

func parseRegions(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var regions []string
	for _, part := range strings.Split(s, ",") {
		region := strings.ToUpper(strings.TrimSpace(part))
		if region == "" {
			continue
		}
		if len(region) != 2 {
			return nil, fmt.Errorf("region %q is not a two-letter state code", part)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func parseDateRange(from, to string, dims dataset.Dimensions) (analytics.DateRange, error) {
	dr := dims.FullRange()

	if from != "" {
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			return dr, fmt.Errorf("parse from date %q: %w", from, err)
		}
		dr.Start = start
	}
	if to != "" {
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return dr, fmt.Errorf("parse to date %q: %w", to, err)
		}
		dr.End = end
	}

	return dr, dr.Validate()
}

func writeReport(views *analytics.Views, format, outputDir string, logger *slog.Logger) ([]string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		return exporter.NewCSVWriter(logger).WriteViews(views, outputDir)
	case "xlsx":
		path := filepath.Join(outputDir, fmt.Sprintf("delivery_report_%s.xlsx", timestamp))
		if err := exporter.NewExcelWriter(logger).WriteWorkbook(views, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "json":
		path := filepath.Join(outputDir, fmt.Sprintf("delivery_report_%s.json", timestamp))
		if err := exporter.WriteJSON(views, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want csv, xlsx, or json)", format)
	}
}

func printSummary(views *analytics.Views, files []string) {
	s := views.Summary

	fmt.Println("\n=== DELIVERY PERFORMANCE SUMMARY ===")
	fmt.Printf("Orders analyzed:   %d\n", s.TotalOrders)
	fmt.Printf("On-time rate:      %.1f%%\n", s.OnTimePct)
	if s.AvgDelayDays.Valid {
		fmt.Printf("Avg delay (late):  %.1f days\n", s.AvgDelayDays.Float64)
	} else {
		fmt.Println("Avg delay (late):  n/a")
	}
	fmt.Printf("Regions covered:   %d\n", s.RegionCount)

	if len(views.TopDelayedCategories) > 0 {
		fmt.Println("\n=== MOST DELAYED CATEGORIES ===")
		fmt.Println("Category                       | Mean Delay (days)")
		fmt.Println("-------------------------------|------------------")
		for _, c := range views.TopDelayedCategories {
			fmt.Printf("%-30s | %17.2f\n", c.Category, c.MeanDelay)
		}
	}

	fmt.Println("\n=== OUTPUT FILES ===")
	for _, f := range files {
		fmt.Println(f)
	}
}
