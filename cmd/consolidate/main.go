package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"sheetcli/internal/config"
	"sheetcli/internal/consolidate"
	"sheetcli/internal/exporter"
	"sheetcli/internal/infrastructure"
)

func main() {
	inDir := flag.String("in", "", "input directory with .xlsx/.csv files (defaults to configured input dir)")
	outFile := flag.String("out", "", "output file, .csv or .xlsx (defaults to consolidated.csv in the configured output dir)")
	flag.Parse()

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

	if *inDir == "" {
		*inDir = paths.InputDir
	}
	if *outFile == "" {
		*outFile = paths.GetOutputPath("consolidated.csv")
	}

	logger.Info("Starting consolidation",
		slog.String("input_dir", *inDir),
		slog.String("output_file", *outFile))

	result, err := consolidate.NewConsolidator(*inDir, logger).ConsolidateDir(context.Background(), "")
	if err != nil {
		logger.Error("Consolidation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeOutput(*outFile, result, logger); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(result)
	fmt.Printf("Consolidated %d files into %s (%d rows, %d duplicates dropped)\n",
		len(result.Files), *outFile, result.Table.NumRows(), result.DuplicatesDropped)
}

func writeOutput(path string, result *consolidate.Result, logger *slog.Logger) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return exporter.NewExcelWriter(logger).WriteTable(path, "Data", result.Table, exporter.DefaultSheetStyle())
	case ".csv":
		return exporter.NewCSVWriter().WriteTable(path, result.Table)
	default:
		return fmt.Errorf("unsupported output extension: %s (want .csv or .xlsx)", path)
	}
}

func printSummary(result *consolidate.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"File", "Rows", "Columns"})
	for _, file := range result.Files {
		t.AppendRow(table.Row{file.Name, file.Rows, file.Columns})
	}
	t.AppendFooter(table.Row{"Total", result.Table.NumRows(), result.Table.NumColumns()})
	t.Render()
}
