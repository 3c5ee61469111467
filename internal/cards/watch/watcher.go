// Package watch reloads inputs when their files change on disk. It backs the
// CLI watch mode: edit the deck list or the card payload and the report is
// recomputed.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Options configures a Watcher.
type Options struct {
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// ReloadsPerSecond limits how often OnChange fires. Editors emit
	// bursts of write events per save; the limiter collapses them.
	// Default: 1.
	ReloadsPerSecond float64
}

// Watcher invokes a callback when a watched file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	limiter  *rate.Limiter
	logger   *slog.Logger
	onChange func(path string)
	watched  map[string]bool
}

// New creates a watcher. onChange receives the path of the changed file.
func New(onChange func(path string), opts Options) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	perSecond := opts.ReloadsPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:   logger,
		onChange: onChange,
		watched:  make(map[string]bool),
	}, nil
}

// Watch registers a file. The parent directory is watched because editors
// often replace files by rename, which drops plain file watches.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %q: %w", abs, err)
	}
	w.watched[abs] = true
	return nil
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.watched[abs] {
				continue
			}
			if !w.limiter.Allow() {
				w.logger.Debug("suppressed change event", "path", abs)
				continue
			}
			w.logger.Info("file changed", "path", abs)
			w.onChange(abs)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
