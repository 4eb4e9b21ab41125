package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

// syntheticClassifier derives a deterministic fact from the entry index encoded in the path.
func syntheticClassifier(e Entry) (EntryFact, bool) {
	var i int
	if _, err := fmt.Sscanf(filepath.Base(e.Path), "f%d", &i); err != nil {
		return EntryFact{}, false
	}

	if i%97 == 0 {
		return EntryFact{}, false
	}

	exts := []string{"txt", "go", "json", UnknownType, "tar.gz"}

	return EntryFact{
		Path:     e.Path,
		Size:     uint64(i%4096) * 3, //nolint:gosec // i is positive
		FileType: exts[i%len(exts)],
		Owner:    uint32(i % 7), //nolint:gosec // i is positive
	}, true
}

func syntheticEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Path: filepath.Join("synthetic", fmt.Sprintf("d%d", i%50), fmt.Sprintf("f%d", i))}
	}

	return entries
}

func sortedPaths(r *Report) []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	sort.Strings(out)

	return out
}

func TestAggregate_WorkerCountInvariance(t *testing.T) {
	entries := syntheticEntries(12_000)

	var baseline *Report

	for _, workers := range []int{1, 2, 3, 8, 64} {
		report, err := Aggregate(context.Background(), entries, AggregateOptions{
			Workers:    workers,
			Classifier: syntheticClassifier,
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if err := report.Check(); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if baseline == nil {
			baseline = report

			continue
		}

		if report.TotalSize != baseline.TotalSize {
			t.Errorf("workers=%d: total size %d, want %d", workers, report.TotalSize, baseline.TotalSize)
		}
		if !reflect.DeepEqual(report.FileTypes, baseline.FileTypes) {
			t.Errorf("workers=%d: file types %v, want %v", workers, report.FileTypes, baseline.FileTypes)
		}
		if !reflect.DeepEqual(report.Ownership, baseline.Ownership) {
			t.Errorf("workers=%d: ownership %v, want %v", workers, report.Ownership, baseline.Ownership)
		}
		if !reflect.DeepEqual(sortedPaths(report), sortedPaths(baseline)) {
			t.Errorf("workers=%d: classified a different set of files", workers)
		}
	}
}

func TestAggregate_DropsRejectedEntries(t *testing.T) {
	entries := syntheticEntries(1000)

	tracker := &Tracker{}

	report, err := Aggregate(context.Background(), entries, AggregateOptions{
		Workers:    4,
		Classifier: syntheticClassifier,
		Tracker:    tracker,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Indices 0, 97, ..., 970 are rejected.
	const dropped = 11

	if len(report.Files) != len(entries)-dropped {
		t.Errorf("expected %d files, got %d", len(entries)-dropped, len(report.Files))
	}

	p := tracker.Snapshot()
	if p.Classified != int64(len(report.Files)) || p.Dropped != dropped {
		t.Errorf("expected tracker classified=%d dropped=%d, got %+v", len(report.Files), dropped, p)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	report, err := Aggregate(context.Background(), nil, AggregateOptions{Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalSize != 0 {
		t.Errorf("expected zero total size, got %d", report.TotalSize)
	}
	if report.FileTypes == nil || len(report.FileTypes) != 0 {
		t.Errorf("expected empty non-nil file types, got %v", report.FileTypes)
	}
	if report.Ownership == nil || len(report.Ownership) != 0 {
		t.Errorf("expected empty non-nil ownership, got %v", report.Ownership)
	}
	if report.Files == nil || len(report.Files) != 0 {
		t.Errorf("expected empty non-nil files, got %v", report.Files)
	}
}

func TestAggregate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Aggregate(ctx, syntheticEntries(100), AggregateOptions{Classifier: syntheticClassifier})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPartial_MergeOrderIndependent(t *testing.T) {
	build := func(facts ...EntryFact) *partial {
		p := newPartial(len(facts))
		for _, f := range facts {
			p.add(f)
		}

		return p
	}

	a := []EntryFact{{Path: "a.go", Size: 1, FileType: "go", Owner: 1}, {Path: "b", Size: 2, FileType: UnknownType, Owner: 2}}
	b := []EntryFact{{Path: "c.go", Size: 4, FileType: "go", Owner: 2}}
	c := []EntryFact{{Path: "d.md", Size: 8, FileType: "md", Owner: 0}}

	left := build(a...)
	left.merge(build(b...))
	left.merge(build(c...))

	right := build(c...)
	bc := build(b...)
	bc.merge(build(a...))
	right.merge(bc)

	if left.totalSize != right.totalSize || left.totalSize != 15 {
		t.Errorf("expected total 15 both ways, got %d and %d", left.totalSize, right.totalSize)
	}
	if !reflect.DeepEqual(left.fileTypes, right.fileTypes) {
		t.Errorf("file types differ: %v vs %v", left.fileTypes, right.fileTypes)
	}
	if !reflect.DeepEqual(left.ownership, right.ownership) {
		t.Errorf("ownership differs: %v vs %v", left.ownership, right.ownership)
	}
	if len(left.files) != 4 || len(right.files) != 4 {
		t.Errorf("expected 4 files both ways, got %d and %d", len(left.files), len(right.files))
	}
}

func TestAggregate_FixtureTree(t *testing.T) {
	if testing.Short() {
		t.Skip("creates 10,000 files")
	}

	root := t.TempDir()
	exts := []string{".txt", ".go", "", ".json"}

	for d := range 100 {
		dir := filepath.Join(root, fmt.Sprintf("dir%03d", d))
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}

		for f := range 100 {
			name := filepath.Join(dir, fmt.Sprintf("file%03d%s", f, exts[(d+f)%len(exts)]))
			if err := os.WriteFile(name, make([]byte, (d*100+f)%513), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}

	entries, err := Enumerate(context.Background(), root, WalkConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// root + 100 directories + 10,000 files
	if len(entries) != 10_101 {
		t.Fatalf("expected 10101 entries, got %d", len(entries))
	}

	var baseline *Report

	for _, workers := range []int{1, 2, 8} {
		report, err := Aggregate(context.Background(), entries, AggregateOptions{Workers: workers})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if err := report.Check(); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(report.Files) != len(entries) {
			t.Fatalf("workers=%d: expected %d files, got %d", workers, len(entries), len(report.Files))
		}

		if baseline == nil {
			baseline = report

			continue
		}

		if report.TotalSize != baseline.TotalSize ||
			!reflect.DeepEqual(report.FileTypes, baseline.FileTypes) ||
			!reflect.DeepEqual(report.Ownership, baseline.Ownership) {
			t.Errorf("workers=%d: aggregate differs from single worker", workers)
		}
	}

	if baseline.FileTypes["txt"] != 2500 || baseline.FileTypes["go"] != 2500 || baseline.FileTypes["json"] != 2500 {
		t.Errorf("unexpected file type counts: %v", baseline.FileTypes)
	}
	// 2,500 extensionless files, 100 directories and the root.
	if baseline.FileTypes[UnknownType] != 2601 {
		t.Errorf("expected 2601 unknown entries, got %d", baseline.FileTypes[UnknownType])
	}
}
