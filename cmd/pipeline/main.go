package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"sheetcli/internal/config"
	"sheetcli/internal/infrastructure"
	"sheetcli/internal/pipeline"
)

func main() {
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
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stages := pipeline.DefaultStages(cfg, paths, logger)
	state, err := pipeline.NewRunner(logger).Run(ctx, stages)
	if state != nil {
		printStages(state)
	}
	if err != nil {
		logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Run %s complete, report at %s\n", state.RunID, state.Value(pipeline.KeyReportPath))
}

func printStages(state *pipeline.State) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Status", "Duration", "Detail"})
	for _, stage := range state.StageStates() {
		detail := stage.Message
		if stage.Err != nil {
			detail = stage.Err.Error()
		}
		t.AppendRow(table.Row{stage.Name, string(stage.CurrentStatus()), stage.Duration().Round(time.Millisecond), detail})
	}
	t.Render()
}
