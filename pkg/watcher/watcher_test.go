package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  ChangeType
		ok    bool
	}{
		{fsnotify.Event{Name: "a.dot", Op: fsnotify.Create}, Written, true},
		{fsnotify.Event{Name: "a.gv", Op: fsnotify.Write}, Written, true},
		{fsnotify.Event{Name: "a.dot", Op: fsnotify.Remove}, Removed, true},
		{fsnotify.Event{Name: "a.dot", Op: fsnotify.Rename}, Removed, true},
		{fsnotify.Event{Name: "a.dot", Op: fsnotify.Chmod}, 0, false},
		{fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}, 0, false},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.event)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Classify(%v) = %v, %t, want %v, %t", tt.event, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDebouncerMergesBurst(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, 20*time.Millisecond, time.Second)
	d.Start(context.Background())

	input <- ChangeEvent{Type: Written, Paths: []string{"b.dot"}}
	input <- ChangeEvent{Type: Written, Paths: []string{"a.dot"}}
	input <- ChangeEvent{Type: Written, Paths: []string{"c.dot"}}
	input <- ChangeEvent{Type: Removed, Paths: []string{"c.dot"}}
	input <- ChangeEvent{Type: Written, Paths: []string{"b.dot"}}

	written := receive(t, d.Output())
	if written.Type != Written || !reflect.DeepEqual(written.Paths, []string{"a.dot", "b.dot"}) {
		t.Errorf("first flush = %v %v", written.Type, written.Paths)
	}
	removed := receive(t, d.Output())
	if removed.Type != Removed || !reflect.DeepEqual(removed.Paths, []string{"c.dot"}) {
		t.Errorf("second flush = %v %v", removed.Type, removed.Paths)
	}

	close(input)
	if _, ok := <-d.Output(); ok {
		t.Error("output should close after input closes")
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, time.Hour, 30*time.Millisecond)
	d.Start(context.Background())

	input <- ChangeEvent{Type: Written, Paths: []string{"a.dot"}}

	if event := receive(t, d.Output()); !reflect.DeepEqual(event.Paths, []string{"a.dot"}) {
		t.Errorf("flush = %v", event.Paths)
	}
	close(input)
}

func TestDebouncerFlushesOnCancel(t *testing.T) {
	input := make(chan ChangeEvent)
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDebouncer(input, time.Hour, time.Hour)
	d.Start(ctx)

	input <- ChangeEvent{Type: Removed, Paths: []string{"gone.dot"}}
	cancel()

	event := receive(t, d.Output())
	if event.Type != Removed || !reflect.DeepEqual(event.Paths, []string{"gone.dot"}) {
		t.Errorf("flush = %v %v", event.Type, event.Paths)
	}
	if _, ok := <-d.Output(); ok {
		t.Error("output should close after cancel")
	}
}

func TestFileWatcher(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := NewFileWatcher(root)
	if err != nil {
		t.Fatalf("NewFileWatcher() error: %v", err)
	}
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	path := filepath.Join(root, "live.dot")
	if err := os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("graph g { a; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	event := receive(t, fw.Events())
	if event.Type != Written || event.Paths[0] != path {
		t.Errorf("event = %v %v, want written %s", event.Type, event.Paths, path)
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-fw.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func receive(t *testing.T, ch <-chan ChangeEvent) ChangeEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}
	return ChangeEvent{}
}
