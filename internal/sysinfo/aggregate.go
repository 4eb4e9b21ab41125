package sysinfo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Classifier turns an entry into a fact, reporting false when the entry should be dropped.
type Classifier func(Entry) (EntryFact, bool)

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// Workers is the number of concurrent workers (0 = GOMAXPROCS).
	Workers int
	// Classifier overrides Classify, mainly for tests.
	Classifier Classifier
	// Tracker receives classification counts, may be nil.
	Tracker *Tracker
}

// progressBatch is the number of entries a worker classifies between tracker updates.
const progressBatch = 256

// partial is one worker's share of the aggregate. It is owned by a single
// goroutine until merged.
type partial struct {
	totalSize uint64
	fileTypes map[string]uint64
	ownership map[uint32]uint64
	files     []EntryFact
}

func newPartial(capacity int) *partial {
	return &partial{
		fileTypes: make(map[string]uint64),
		ownership: make(map[uint32]uint64),
		files:     make([]EntryFact, 0, capacity),
	}
}

func (p *partial) add(f EntryFact) {
	p.totalSize += f.Size
	p.fileTypes[f.FileType]++
	p.ownership[f.Owner]++
	p.files = append(p.files, f)
}

// merge folds o into p. Sizes and counts add, maps union with summed counts and
// facts concatenate, so the result does not depend on merge order.
func (p *partial) merge(o *partial) {
	p.totalSize += o.totalSize

	for k, n := range o.fileTypes {
		p.fileTypes[k] += n
	}

	for k, n := range o.ownership {
		p.ownership[k] += n
	}

	p.files = append(p.files, o.files...)
}

// Aggregate classifies every entry exactly once across a bounded pool of workers
// and merges their partial results into one Report.
//
// Entries are split into contiguous chunks, one per worker. Entries the
// classifier rejects are dropped without error. Only cancellation of ctx is
// returned as an error.
func Aggregate(ctx context.Context, entries []Entry, opts AggregateOptions) (*Report, error) {
	classify := opts.Classifier
	if classify == nil {
		classify = Classify
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, len(entries))
	workers = max(workers, 1)

	chunk := (len(entries) + workers - 1) / workers
	partials := make([]*partial, workers)

	group, ctx := errgroup.WithContext(ctx)

	for i := range workers {
		lo := min(i*chunk, len(entries))
		hi := min(lo+chunk, len(entries))
		part := entries[lo:hi]

		group.Go(func() error {
			p := newPartial(len(part))

			var pending, dropped, bytes int64

			for j, e := range part {
				if j%progressBatch == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}

					opts.Tracker.addClassified(pending, dropped, bytes)
					pending, dropped, bytes = 0, 0, 0
				}

				f, ok := classify(e)
				if !ok {
					dropped++

					continue
				}

				p.add(f)
				pending++
				bytes += int64(f.Size) //nolint:gosec // Progress display only
			}

			opts.Tracker.addClassified(pending, dropped, bytes)
			partials[i] = p

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating entries: %w", err)
	}

	total := newPartial(0)
	for _, p := range partials {
		total.merge(p)
	}

	return &Report{
		TotalSize: total.totalSize,
		FileTypes: total.fileTypes,
		Ownership: total.ownership,
		Files:     total.files,
	}, nil
}
