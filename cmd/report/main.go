package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetcli/internal/chart"
	"sheetcli/internal/cleaning"
	"sheetcli/internal/config"
	"sheetcli/internal/dataset"
	"sheetcli/internal/exporter"
	"sheetcli/internal/infrastructure"
	"sheetcli/internal/transform"
)

func main() {
	inFile := flag.String("in", "", "input file, .csv or .xlsx (required)")
	outFile := flag.String("out", "", "report workbook path (defaults to report.xlsx in the configured output dir)")
	groupColumn := flag.String("group", "", "column to group by (required)")
	valueColumn := flag.String("value", "", "numeric column to aggregate (required)")
	sheetName := flag.String("sheet", "Summary", "name of the summary sheet")
	chartName := flag.String("chart", "bar", "chart type: bar, line, or pie")
	flag.Parse()

	if *inFile == "" || *groupColumn == "" || *valueColumn == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}

	if *outFile == "" {
		*outFile = paths.GetOutputPath("report.xlsx")
	}

	chartType, err := chart.ParseType(*chartName)
	if err != nil {
		slog.Error("Invalid chart type", "error", err)
		os.Exit(2)
	}

	tbl, err := readTable(*inFile)
	if err != nil {
		logger.Error("Failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cleaning.NewCleaner(logger).Clean(tbl)

	summary, err := transform.GroupBy(tbl, *groupColumn,
		transform.Aggregation{Column: *valueColumn, Kind: transform.AggSum},
		transform.Aggregation{Column: *valueColumn, Kind: transform.AggMean},
		transform.Aggregation{Column: *valueColumn, Kind: transform.AggCount},
	)
	if err != nil {
		logger.Error("Aggregation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeReport(*outFile, *sheetName, tbl, summary, chartType, *groupColumn, *valueColumn, logger); err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Report written to %s (%d groups)\n", *outFile, summary.NumRows())
}

func readTable(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataset.ReadCSV(path)
	case ".xlsx", ".xls":
		return dataset.ReadExcel(path, "")
	default:
		return nil, fmt.Errorf("unsupported input extension: %s", path)
	}
}

func writeReport(path, sheetName string, tbl, summary *dataset.Table, chartType chart.Type, groupColumn, valueColumn string, logger *slog.Logger) error {
	f := excelize.NewFile()
	defer f.Close()

	writer := exporter.NewExcelWriter(logger)
	style := exporter.DefaultSheetStyle()

	if err := writer.AddSheet(f, "Data", tbl, style); err != nil {
		return err
	}
	if err := writer.AddSheet(f, sheetName, summary, style); err != nil {
		return err
	}

	spec := chart.Spec{
		Type:           chartType,
		Title:          fmt.Sprintf("%s by %s", valueColumn, groupColumn),
		CategoryColumn: summary.Columns[0],
		SeriesColumns:  summary.Columns[1:],
	}
	if err := chart.NewBuilder(logger).AddToSheet(f, sheetName, summary, spec); err != nil {
		return err
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return f.SaveAs(path)
}
