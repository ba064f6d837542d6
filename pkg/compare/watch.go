package compare

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for after the last change.
const DefaultDebounce = 300 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onError  func(error)
}

// WithDebounce sets the quiet period before a change triggers a run.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) { c.debounce = d }
}

// WithOnError sets the callback for watcher errors.
func WithOnError(fn func(error)) WatchOption {
	return func(c *watchConfig) { c.onError = fn }
}

// Watch calls fn whenever the file at path is written, created or renamed
// into place, until ctx is cancelled. Bursts of events within the debounce
// period collapse into one call, and calls never overlap.
//
// The containing directory is watched so editors that save by rename are
// still seen.
func Watch(ctx context.Context, path string, fn func(context.Context), opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultDebounce, onError: func(error) {}}
	for _, opt := range opts {
		opt(&cfg)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		running sync.Mutex
		timer   *time.Timer
		wg      sync.WaitGroup
	)
	// Every scheduled timer holds one wg slot until it fires or is stopped.
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		wg.Add(1)
		timer = time.AfterFunc(cfg.debounce, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			running.Lock()
			defer running.Unlock()
			fn(ctx)
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	target := filepath.Base(abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.onError(err)
		}
	}
}
