// Package watch re-runs a callback when the watched directory's contents
// change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/yaklabco/envdoctor/internal/log"
)

// DefaultDebounce batches bursts of filesystem events into one re-run.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a watch loop.
type Options struct {
	// Dir is the directory to watch.
	Dir string

	// Debounce is the quiet period after an event before OnChange fires.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// Ignore holds glob patterns matched against event base names. This
	// must include the artifacts OnChange itself writes, or the loop
	// would retrigger forever.
	Ignore []string

	// OnChange runs after each debounced batch of events.
	OnChange func(ctx context.Context)
}

// Watch blocks, invoking opts.OnChange whenever files in opts.Dir change,
// until ctx is canceled. Cancellation is a clean exit, not an error.
func Watch(ctx context.Context, opts Options) error {
	if opts.OnChange == nil {
		return fmt.Errorf("watch: OnChange must be set")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	globs := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("watch: compiling ignore pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("watch: adding %s: %w", opts.Dir, err)
	}

	slog.Debug("watching directory", log.Dir, opts.Dir, log.Duration, debounce)

	// The timer is parked until the first relevant event.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignored(globs, event.Name) {
				continue
			}
			slog.Debug("filesystem event", log.Path, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Debug("watcher error", log.Error, err)

		case <-timer.C:
			opts.OnChange(ctx)
		}
	}
}

func ignored(globs []glob.Glob, name string) bool {
	base := filepath.Base(name)
	for _, g := range globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}
