package watcher

import (
	"context"
	"sort"
	"time"

	"github.com/ritzau/dotlite/pkg/logging"
)

// Debouncer merges bursts of change events. It flushes once no event has
// arrived for quietPeriod, or maxWait after the first event of a burst.
// Only the last change per path survives a flush.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins debouncing. The output channel is closed after the input
// closes or ctx is done, with pending changes flushed first.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		quiet    = stoppedTimer()
		maxWait  = stoppedTimer()
		bursting bool
		pending  = make(map[string]ChangeType)
	)

	flush := func() {
		quiet.Stop()
		maxWait.Stop()
		bursting = false
		if len(pending) == 0 {
			return
		}

		var written, removed []string
		for path, t := range pending {
			if t == Removed {
				removed = append(removed, path)
			} else {
				written = append(written, path)
			}
		}
		sort.Strings(written)
		sort.Strings(removed)
		logging.Debug("flushing DOT changes", "written", len(written), "removed", len(removed))

		now := time.Now()
		if len(written) > 0 {
			d.output <- ChangeEvent{Type: Written, Paths: written, Timestamp: now}
		}
		if len(removed) > 0 {
			d.output <- ChangeEvent{Type: Removed, Paths: removed, Timestamp: now}
		}
		pending = make(map[string]ChangeType)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			for _, path := range event.Paths {
				pending[path] = event.Type
			}
			quiet.Reset(d.quietPeriod)
			if !bursting {
				maxWait.Reset(d.maxWait)
				bursting = true
			}

		case <-quiet.C:
			flush()

		case <-maxWait.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
