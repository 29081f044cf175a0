// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the tables must stay quiet before a reload.
const DefaultWatchDebounce = 500 * time.Millisecond

// ReloadFunc rebuilds the graph after the tables changed.
type ReloadFunc func(ctx context.Context) error

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher triggers a reload when the tables of a DirSource change.
//
// # Description
//
// Watches the dataset directory (not recursively) and reacts only to
// writes, creates and renames of the named table files. Bursts of events,
// such as a copy that rewrites both tables, are collapsed into a single
// reload once the debounce window passes without new events. A failed
// reload is logged and the previously installed graph stays in place.
//
// # Thread Safety
//
// Run must be called once. The reload function is called from Run's
// goroutine only, so reloads never overlap.
type Watcher struct {
	dir      string
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching src's directory for changes to files.
//
// Inputs:
//
//	src - The directory holding the tables.
//	files - Table file names relative to src.Dir.
//	opts - Watcher options.
//
// Outputs:
//
//	*Watcher - Ready to Run. Run closes the underlying watch.
//	error - Non-nil if the directory cannot be watched.
func NewWatcher(src DirSource, files []string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		dir:      src.Dir,
		files:    make(map[string]bool, len(files)),
		debounce: DefaultWatchDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, name := range files {
		w.files[filepath.Base(name)] = true
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(src.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", src.Dir, err)
	}
	w.watcher = fw
	return w, nil
}

// Run delivers debounced reloads until ctx is canceled.
//
// Returns nil on cancellation. Reload errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context, reload ReloadFunc) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var pending bool
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Dataset table changed", "file", event.Name, "op", event.Op.String())
			pending = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Dataset watch error", "dir", w.dir, "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.logger.Info("Reloading dataset", "dir", w.dir)
			if err := reload(ctx); err != nil {
				w.logger.Warn("Dataset reload failed, keeping current graph", "dir", w.dir, "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
