package watcher

import (
	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/dotlite/pkg/finder"
)

// Classify maps a file system event on a DOT file to a change type.
// Events on other files, and attribute-only changes, are ignored.
func Classify(event fsnotify.Event) (ChangeType, bool) {
	if !finder.IsDotFile(event.Name) {
		return 0, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename reports the old name; the new name arrives as a Create
		return Removed, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return Written, true
	}
	return 0, false
}
