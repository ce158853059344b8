package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"sheetcli/internal/cleaning"
	"sheetcli/internal/config"
	"sheetcli/internal/dataset"
	"sheetcli/internal/exporter"
	"sheetcli/internal/infrastructure"
)

func main() {
	inFile := flag.String("in", "", "input file, .csv or .xlsx (required)")
	outFile := flag.String("out", "", "output file, .csv or .xlsx (defaults to <in>_clean.csv in the configured output dir)")
	outlierColumns := flag.String("outliers", "", "comma-separated numeric columns to flag outliers in (optional)")
	flag.Parse()

	if *inFile == "" {
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
		base := strings.TrimSuffix(filepath.Base(*inFile), filepath.Ext(*inFile))
		*outFile = paths.GetOutputPath(base + "_clean.csv")
	}

	tbl, err := readTable(*inFile)
	if err != nil {
		logger.Error("Failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	report := cleaning.NewCleaner(logger).Clean(tbl)

	flagged, err := flagOutlierColumns(tbl, *outlierColumns)
	if err != nil {
		logger.Error("Outlier flagging failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeTable(*outFile, tbl, logger); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printReport(report, flagged)
	fmt.Printf("Cleaned %s into %s (%d rows remain)\n", *inFile, *outFile, tbl.NumRows())
}

// flagOutlierColumns flags outliers in every column of a
// comma-separated list, returning the total number of rows flagged.
func flagOutlierColumns(tbl *dataset.Table, spec string) (int, error) {
	total := 0
	for _, column := range strings.Split(spec, ",") {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		flagged, err := cleaning.FlagOutliers(tbl, column)
		if err != nil {
			return total, fmt.Errorf("column %s: %w", column, err)
		}
		total += flagged
	}
	return total, nil
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

func writeTable(path string, tbl *dataset.Table, logger *slog.Logger) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return exporter.NewExcelWriter(logger).WriteTable(path, "Data", tbl, exporter.DefaultSheetStyle())
	case ".csv":
		return exporter.NewCSVWriter().WriteTable(path, tbl)
	default:
		return fmt.Errorf("unsupported output extension: %s (want .csv or .xlsx)", path)
	}
}

func printReport(report cleaning.Report, flagged int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Check", "Count"})
	t.AppendRow(table.Row{"Blank rows dropped", report.BlankRowsDropped})
	t.AppendRow(table.Row{"Blank columns dropped", len(report.BlankColumnsDropped)})
	t.AppendRow(table.Row{"Duplicate rows dropped", report.DuplicatesDropped})
	t.AppendRow(table.Row{"Columns renamed", report.RenamedColumns})
	t.AppendRow(table.Row{"Outliers flagged", flagged})
	t.Render()
}
