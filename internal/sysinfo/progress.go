package sysinfo

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Tracker counts scan progress. Counters are advisory and never feed the Report.
// A nil *Tracker is valid and discards all updates.
type Tracker struct {
	entries    atomic.Int64
	skipped    atomic.Int64
	classified atomic.Int64
	dropped    atomic.Int64
	bytes      atomic.Int64
}

// Progress is a point-in-time copy of a Tracker.
type Progress struct {
	// Entries is the number of entries discovered by the walk.
	Entries int64
	// Skipped is the number of walk errors that were skipped.
	Skipped int64
	// Classified is the number of entries that produced a fact.
	Classified int64
	// Dropped is the number of entries whose metadata could not be read.
	Dropped int64
	// Bytes is the cumulative size of classified entries.
	Bytes int64
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Progress {
	if t == nil {
		return Progress{}
	}

	return Progress{
		Entries:    t.entries.Load(),
		Skipped:    t.skipped.Load(),
		Classified: t.classified.Load(),
		Dropped:    t.dropped.Load(),
		Bytes:      t.bytes.Load(),
	}
}

func (t *Tracker) addDiscovered() {
	if t != nil {
		t.entries.Add(1)
	}
}

func (t *Tracker) addSkipped() {
	if t != nil {
		t.skipped.Add(1)
	}
}

// addClassified records a batch so workers touch the shared counters rarely.
func (t *Tracker) addClassified(n, dropped, bytes int64) {
	if t == nil {
		return
	}

	t.classified.Add(n)
	t.dropped.Add(dropped)
	t.bytes.Add(bytes)
}

// startProgressReporter invokes hook with a snapshot on each tick until ctx is done.
func startProgressReporter(ctx context.Context, t *Tracker, hook func(Progress), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(t.Snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}
