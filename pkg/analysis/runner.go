package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ritzau/dotlite/pkg/finder"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/pubsub"
	"github.com/ritzau/dotlite/pkg/watcher"
)

// Catalog is where the runner stores decode results
type Catalog interface {
	Reload(ctx context.Context, paths []string) (loaded, failed int)
	Remove(paths []string)
	PublishStatus(status pubsub.CatalogStatus)
}

// Runner keeps a catalog in sync with the DOT files of a directory
type Runner struct {
	root    string
	catalog Catalog
	mu      sync.Mutex // one run at a time
}

// Options selects what a run does. With no paths at all the whole
// directory is rescanned.
type Options struct {
	Written []string
	Removed []string
	Reason  string // e.g. "initial load", "files changed"
}

// NewRunner creates a runner for the directory root
func NewRunner(root string, catalog Catalog) *Runner {
	return &Runner{root: root, catalog: catalog}
}

// Run applies one round of changes to the catalog
func (r *Runner) Run(ctx context.Context, opts Options) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logging.Info("loading graphs", "reason", opts.Reason)
	start := time.Now()

	written := opts.Written
	if len(opts.Written) == 0 && len(opts.Removed) == 0 {
		r.catalog.PublishStatus(pubsub.CatalogStatus{State: "loading", Message: "Scanning for DOT files..."})

		var err error
		written, err = finder.FindDotFiles(r.root)
		if err != nil {
			r.catalog.PublishStatus(pubsub.CatalogStatus{State: "error", Message: fmt.Sprintf("Error scanning %s: %v", r.root, err)})
			return fmt.Errorf("scanning %s: %w", r.root, err)
		}
		logging.Info("found DOT files", "count", len(written), "path", r.root)
	}

	if len(opts.Removed) > 0 {
		r.catalog.Remove(opts.Removed)
		logging.Info("removed graphs", "count", len(opts.Removed))
	}

	loaded, failed := 0, 0
	if len(written) > 0 {
		r.catalog.PublishStatus(pubsub.CatalogStatus{State: "loading", Message: "Decoding graphs...", Files: len(written)})
		loaded, failed = r.catalog.Reload(ctx, written)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r.catalog.PublishStatus(pubsub.CatalogStatus{
		State:   "ready",
		Message: fmt.Sprintf("%d graph(s) loaded, %d failed", loaded, failed),
		Files:   loaded + failed,
		Failed:  failed,
	})
	logging.Info("graphs loaded", "reason", opts.Reason, "loaded", loaded, "failed", failed, "durationMs", time.Since(start).Milliseconds())
	return nil
}

// Watch reloads changed files until ctx is done. Bursts of file system
// events are merged by a debouncer before each run.
func (r *Runner) Watch(ctx context.Context, quietPeriod, maxWait time.Duration) error {
	fw, err := watcher.NewFileWatcher(r.root)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), quietPeriod, maxWait)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		opts := Options{Reason: fmt.Sprintf("%d file(s) %s", len(event.Paths), event.Type)}
		if event.Type == watcher.Removed {
			opts.Removed = event.Paths
		} else {
			opts.Written = event.Paths
		}
		if err := r.Run(ctx, opts); err != nil {
			logging.Warn("reload failed", "reason", opts.Reason, "error", err)
		}
	}

	return ctx.Err()
}
