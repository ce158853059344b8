package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long a path must stay quiet before the
// handler fires.
const defaultDebounce = 500 * time.Millisecond

// Handler processes one settled file. Errors are logged, not fatal.
type Handler func(ctx context.Context, path string) error

// Watcher invokes a handler for every new tabular file in a directory.
// Invocations are serialized: settled paths queue up and a single
// worker drains them, so concurrent settlements never run the handler
// in parallel.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	triggers chan string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. Zero debounce uses the default.
func New(dir string, debounce time.Duration, handler Handler, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		triggers: make(chan string, 64),
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go w.drainTriggers(runCtx, done)
	defer func() {
		cancel()
		<-done
	}()

	w.logger.Info("watching directory",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isTabularFile(event.Name) {
				continue
			}
			w.schedule(runCtx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

// drainTriggers is the single worker that runs the handler for each
// settled path, one at a time.
func (w *Watcher) drainTriggers(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.triggers:
			w.logger.Info("file settled", slog.String("path", path))
			if err := w.handler(ctx, path); err != nil {
				w.logger.Error("handler failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
		}
	}
}

// schedule (re)arms the debounce timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.triggers <- path:
		case <-ctx.Done():
		}
	})
}

// cancelPending stops every armed timer.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// isTabularFile reports whether the path is a processable spreadsheet,
// excluding Excel lock files.
func isTabularFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls":
		return true
	default:
		return false
	}
}
