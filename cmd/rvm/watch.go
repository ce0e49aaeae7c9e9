package main

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// watch runs the program once, then again whenever the input file
// changes, until ctx is cancelled. Run errors are logged, not returned.
func watch(ctx context.Context, c *Config, log *zap.Logger, out, trace io.Writer) error {
	file := filepath.Clean(c.Image)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}

	defer watcher.Close()

	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return errors.Wrapf(err, "watch %s", file)
	}

	rerun := time.After(time.Millisecond)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rerun:
			log.Info("run", zap.String("file", file))
			if err := run(ctx, c, log, out, trace); err != nil {
				log.Error("run failed", zap.String("file", file), zap.Error(err))
			}
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == file && !ev.IsAttrib() {
				rerun = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Warn("watcher", zap.Error(err))
		}
	}
}
