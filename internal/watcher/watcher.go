// Package watcher provides a debounced file watcher used by the finalize
// watch mode to re-run stylesheet consolidation when loose stylesheets appear
// next to a deck's markup entry.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/deckgen/internal/logging"
)

// DefaultDebounce groups rapid editor write bursts into one trigger.
const DefaultDebounce = 300 * time.Millisecond

// Filter decides whether a changed path is interesting.
type Filter func(path string) bool

// Handler runs after a debounced batch of interesting changes.
type Handler func(ctx context.Context, paths []string)

// StylesheetFilter matches loose stylesheet files.
func StylesheetFilter(path string) bool {
	return strings.HasSuffix(path, ".css")
}

// Watcher watches a single directory, non-recursively, and invokes its
// handler after changes settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	filter   Filter
	handler  Handler
	logger   logging.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a watcher over dir.
func New(dir string, debounce time.Duration, filter Filter, handler Handler, logger logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fs:       fs,
		debounce: debounce,
		filter:   filter,
		handler:  handler,
		logger:   logger.WithComponent("watcher"),
		pending:  make(map[string]struct{}),
	}, nil
}

// Run blocks, dispatching debounced change batches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !w.filter(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, err, "watch error")
		}
	}
}

// schedule records a change and (re)arms the debounce timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(path)] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.flush(ctx)
	})
}

// flush hands the pending batch to the handler. A timer that already fired
// when the watcher shut down must not start a run, so a done context drops
// the batch.
func (w *Watcher) flush(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}

	w.logger.Debug(ctx, "dispatching changes", "count", len(paths))
	w.handler(ctx, paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
