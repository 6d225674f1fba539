package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce is the quiet period after the last change before regenerating.
// Editors and introspection runs usually touch a file several times.
const debounce = 250 * time.Millisecond

func (c *cli) watchCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the configuration or the database tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.watch(cmd.Context(), opts)
		},
	}
	opts.flags(cmd)
	return cmd
}

func (c *cli) watch(ctx context.Context, opts generateOptions) error {
	log := c.logger()
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	files := []string{cfg.SchemaFile}
	if opts.config != "" {
		files = append(files, opts.config)
	} else if _, err := os.Stat(defaultConfigFile); err == nil {
		files = append(files, defaultConfigFile)
	}
	run := func(ctx context.Context) {
		report, err := c.generate(ctx, opts)
		if err != nil {
			log.Error("generation failed", "error", err)
			return
		}
		c.printReport(report, false)
	}
	run(ctx)
	log.Info("watching for changes", "files", files)
	return watchFiles(ctx, log, files, debounce, run)
}

// watchFiles calls fn after any of files changes, once the changes have
// settled for the given quiet period. It returns when ctx is done. The
// parent directories are watched, since editors and atomic writers replace
// files instead of writing them in place.
func watchFiles(ctx context.Context, log *slog.Logger, files []string, quiet time.Duration, fn func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	timer := time.NewTimer(quiet)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(quiet)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		case <-timer.C:
			fn(ctx)
		}
	}
}
