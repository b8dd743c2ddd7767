// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch turns an inbox directory into a stream of PDF files to
// split. Files already present can be emitted once at start, and bursts of
// create/write events for a file are coalesced before it is emitted.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/certsplit/pkg/types"
)

// DefaultDebounce is used when WatchConfig.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// Handler processes one PDF path from the inbox.
type Handler func(ctx context.Context, path string) error

// Start watches cfg.Inbox and returns the channel of PDF paths ready to be
// processed. The channel is closed when ctx is canceled.
func Start(ctx context.Context, cfg types.WatchConfig, logger *slog.Logger) (<-chan string, error) {
	if cfg.Inbox == "" {
		return nil, errors.New("no inbox directory provided")
	}
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(cfg.Inbox); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", cfg.Inbox, err)
	}

	var existing []string
	if cfg.InitialScan {
		existing, err = scan(cfg.Inbox)
		if err != nil {
			w.Close()
			return nil, err
		}
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer w.Close()

		emit := func(path string) bool {
			select {
			case out <- path:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, p := range existing {
			if !emit(p) {
				return
			}
		}

		var (
			timer   *time.Timer
			timerC  <-chan time.Time
			pending = map[string]struct{}{}
		)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !isPDF(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
					continue
				}
				logger.Debug("inbox event", "path", e.Name, "op", e.Op.String())
				pending[e.Name] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				paths := make([]string, 0, len(pending))
				for p := range pending {
					paths = append(paths, p)
				}
				clear(pending)
				sort.Strings(paths)
				for _, p := range paths {
					if !emit(p) {
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
			}
		}
	}()

	return out, nil
}

// Serve calls handle for every path received until paths is closed. A file
// is handled again only when its modification time changed. Handler errors
// are logged and do not stop the loop.
func Serve(ctx context.Context, paths <-chan string, handle Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	seen := make(map[string]time.Time)

	for p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("inbox file vanished", "path", p, "error", err)
			continue
		}
		if mod, ok := seen[p]; ok && mod.Equal(info.ModTime()) {
			logger.Debug("inbox file unchanged, skipping", "path", p)
			continue
		}
		seen[p] = info.ModTime()

		if err := handle(ctx, p); err != nil {
			logger.Error("processing inbox file failed", "path", p, "error", err)
		}
	}
}

// Run watches the inbox and handles files until ctx is canceled.
func Run(ctx context.Context, cfg types.WatchConfig, handle Handler, logger *slog.Logger) error {
	paths, err := Start(ctx, cfg, logger)
	if err != nil {
		return err
	}
	Serve(ctx, paths, handle, logger)
	return nil
}

func scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.Type().IsRegular() && isPDF(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// isPDF accepts *.pdf in any case and ignores hidden and temporary files.
func isPDF(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".pdf")
}
