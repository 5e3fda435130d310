package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it is written or created, and calls fn with the
// result. The parent directory is watched so editors that replace the file are seen; moving the
// file away is ignored. fn runs on the watcher goroutine and receives what Load returns: a failed
// reload passes a nil config, a config with unknown names is passed along with its naming errors.
// Watching stops when ctx is done.
//
// Parameters:
//   - ctx: stops the watcher when done
//   - path: the config file
//   - fn: receives every reload
//
// Returns:
//   - error: an error if the watcher could not be started
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("config watch %s: %w", path, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(abs)
				fn(cfg, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fn(nil, fmt.Errorf("config watch: %w", err))
			}
		}
	}()
	return nil
}
