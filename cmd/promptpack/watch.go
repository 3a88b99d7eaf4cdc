package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agusx1211/promptpack/selection"
)

const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Recount the selection's tokens whenever a file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject(rootDir, selFlags, logger)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		report := func() {
			set, err := proj.selectPaths(args, selFlags.preset)
			if err != nil {
				logger.Warn("watch: selection failed", slog.String("error", err.Error()))
				return
			}
			files, counts, err := proj.load(ctx, set)
			if err != nil {
				logger.Warn("watch: load failed", slog.String("error", err.Error()))
				return
			}
			sum := 0
			for _, n := range counts {
				sum += n
			}
			fmt.Fprintf(out, "%s\t%d tokens in %d files\n", time.Now().Format("15:04:05"), sum, len(files))
			if warning := budgetWarning(sum, budgetFor(cmd, proj.cfg)); warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
		}

		report()
		return watchTree(ctx, proj.root, proj.filter, watchDebounce, logger, func(changed []string) {
			proj.cache.Invalidate(changed...)
			report()
		})
	},
}

// watchTree watches root and every directory the filter admits. Once events
// have been quiet for debounce it calls onChange with the changed paths. It
// returns when ctx is cancelled.
func watchTree(ctx context.Context, root string, filter *selection.Filter, debounce time.Duration, logger *slog.Logger, onChange func(changed []string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addDirsRecursive(w, root, filter); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]struct{})

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerC:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})
			logger.Debug("watcher: settled", slog.Int("changed", len(changed)))
			onChange(changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, filter); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}
			pending[ev.Name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and the subdirectories the filter admits.
func addDirsRecursive(w *fsnotify.Watcher, root string, filter *selection.Filter) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := filter.Rel(path); !ok || rel != "." {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !filter.ShouldInclude(info, path) {
				return filepath.SkipDir
			}
		}
		return w.Add(path)
	})
}
