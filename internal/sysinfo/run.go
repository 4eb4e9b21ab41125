package sysinfo

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

// logger provides conditional debug output.
type logger struct {
	w io.Writer
}

// printf prints debug output if a writer is configured.
func (l logger) printf(format string, args ...any) {
	if l.w != nil {
		fmt.Fprintf(l.w, format, args...)
	}
}

// Options configures a scan.
type Options struct {
	// Path is the root directory to scan.
	Path string
	// Workers is the number of classification workers (0 = GOMAXPROCS).
	Workers int
	// WalkWorkers is the number of fastwalk readers (0 = fastwalk default).
	WalkWorkers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug receives debug output, nil disables it.
	Debug io.Writer
}

// Stats describes how a scan went. It is not part of the Report.
type Stats struct {
	// Progress holds the final counter values.
	Progress Progress
	// Elapsed is the total time taken by the scan.
	Elapsed time.Duration
}

// Run enumerates opt.Path and aggregates all entries into a Report.
//
// Unreadable entries are skipped and a missing root produces an empty Report;
// neither is an error. Progress snapshots are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(Progress)) (*Report, Stats, error) {
	log := logger{w: opt.Debug}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	tracker := &Tracker{}

	// Child context ensures progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, tracker, progressHook, opt.ProgressInterval)

	start := time.Now()

	entries, err := Enumerate(ctx, opt.Path, WalkConfig{
		NumWorkers: opt.WalkWorkers,
		Tracker:    tracker,
		Debug:      opt.Debug,
	})
	if err != nil {
		return nil, Stats{}, err
	}

	log.printf("[debug]: enumerated %d entries under %s in %v\n", len(entries), opt.Path, time.Since(start))

	report, err := Aggregate(ctx, entries, AggregateOptions{
		Workers: opt.Workers,
		Tracker: tracker,
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		Progress: tracker.Snapshot(),
		Elapsed:  time.Since(start),
	}

	log.printf("[debug]: classified %d entries (%d dropped, %d skipped) in %v\n",
		stats.Progress.Classified, stats.Progress.Dropped, stats.Progress.Skipped, stats.Elapsed)

	return report, stats, nil
}
