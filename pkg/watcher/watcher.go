package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/dotlite/pkg/logging"
)

// ChangeType is the kind of change seen on a DOT file
type ChangeType int

const (
	Written ChangeType = iota // created or modified, decode again
	Removed                   // deleted or renamed away
)

func (t ChangeType) String() string {
	switch t {
	case Written:
		return "written"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// ChangeEvent is a batch of paths with the same kind of change
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a directory tree for changes to DOT files
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for the tree rooted at root
func NewFileWatcher(root string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start watches every non-hidden directory under root and begins
// forwarding events. The events channel is closed when ctx is done or the
// watcher is closed.
func (fw *FileWatcher) Start(ctx context.Context) error {
	count := 0
	err := filepath.WalkDir(fw.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		fw.watcher.Close()
		return fmt.Errorf("failed to walk %s: %w", fw.root, err)
	}

	logging.Info("started watching for DOT changes", "path", fw.root, "directories", count)

	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			logging.Trace("fs event", "op", event.Op.String(), "path", event.Name)

			if event.Has(fsnotify.Create) {
				fw.watchNewDir(event.Name)
			}

			changeType, ok := Classify(event)
			if !ok {
				continue
			}
			select {
			case fw.events <- ChangeEvent{Type: changeType, Paths: []string{event.Name}, Timestamp: time.Now()}:
			case <-ctx.Done():
				fw.watcher.Close()
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// watchNewDir extends the watch to a directory created after Start
func (fw *FileWatcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || strings.HasPrefix(info.Name(), ".") {
		return
	}
	if err := fw.watcher.Add(path); err != nil {
		logging.Warn("failed to watch directory", "path", path, "error", err)
		return
	}
	logging.Debug("watching new directory", "path", path)
}

// Events returns the channel of undebounced change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
