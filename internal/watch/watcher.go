// Package watch implements the texbuilder watch daemon: rebuild on source
// changes, optional periodic rebuilds, and optional metrics exposition.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// SourceWatcher monitors the source tree and fires a callback after changes
// settle for the debounce interval, coalescing rapid event bursts.
type SourceWatcher struct {
	sourceDir string
	ignore    map[string]bool // top-level entry names to ignore
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onChange  func()
	stopChan  chan struct{}
}

// NewSourceWatcher creates a watcher over sourceDir. The ignore set should
// hold the output directory's name and the build's excluded entries, so
// publishing results never retriggers a build.
func NewSourceWatcher(sourceDir string, ignore []string, debounce time.Duration, onChange func()) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	set := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		set[name] = true
	}
	return &SourceWatcher{
		sourceDir: absDir,
		ignore:    set,
		watcher:   watcher,
		debounce:  debounce,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start begins monitoring the source directory.
func (w *SourceWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.sourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", w.sourceDir, err)
	}
	slog.Info("Watching source directory", logfields.Path(w.sourceDir))
	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *SourceWatcher) Stop() {
	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		slog.Error("Error closing file watcher", logfields.Error(err))
	}
}

func (w *SourceWatcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Source change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// relevant filters out ignored entries and chmod-only noise.
func (w *SourceWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.sourceDir, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	top := rel
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		top = rel[:i]
	}
	return !w.ignore[top]
}
