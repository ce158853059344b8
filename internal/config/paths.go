package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths resolves every directory the toolkit touches. Relative
// configured paths are anchored at BaseDir.
type Paths struct {
	BaseDir   string
	InputDir  string
	OutputDir string
	LogsDir   string
}

// NewPaths builds resolved paths from configuration.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	return &Paths{
		BaseDir:   base,
		InputDir:  resolveDir(base, cfg.InputDir),
		OutputDir: resolveDir(base, cfg.OutputDir),
		LogsDir:   resolveDir(base, cfg.LogsDir),
	}, nil
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// GetInputPath returns the full path of a file in the input directory.
func (p *Paths) GetInputPath(name string) string {
	return filepath.Join(p.InputDir, name)
}

// GetOutputPath returns the full path of a file in the output directory.
func (p *Paths) GetOutputPath(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// GetLogPath returns the full path of a file in the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// EnsureDirectories creates every managed directory that does not exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.InputDir, p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved directories for debugging.
func (p *Paths) LogPathResolution() {
	slog.Debug("resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir))
}
