package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sheetcli/internal/config"
	"sheetcli/internal/infrastructure"
	"sheetcli/internal/pipeline"
	"sheetcli/internal/watcher"
)

func main() {
	dir := flag.String("dir", "", "directory to watch (defaults to configured input dir)")
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

	if *dir == "" {
		*dir = paths.InputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Every settled new file triggers a full pipeline run
	handler := func(ctx context.Context, path string) error {
		logger.Info("File settled, starting pipeline run", slog.String("path", path))
		stages := pipeline.DefaultStages(cfg, paths, logger)
		_, err := pipeline.NewRunner(logger).Run(ctx, stages)
		return err
	}

	logger.Info("Watching for new files",
		slog.String("dir", *dir),
		slog.Duration("debounce", cfg.Watch.Debounce))

	w := watcher.New(*dir, cfg.Watch.Debounce, handler, logger)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Watcher failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Watcher stopped")
}
