package sysinfo

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// Entry is a handle to one filesystem object discovered during a walk.
type Entry struct {
	// Path is the path as discovered, rooted at the walked directory.
	Path string
}

// WalkConfig configures Enumerate.
type WalkConfig struct {
	// NumWorkers is passed to fastwalk (0 = fastwalk default).
	NumWorkers int
	// Tracker receives discovery and skip counts, may be nil.
	Tracker *Tracker
	// Debug receives debug output, nil disables it.
	Debug io.Writer
}

// Enumerate walks root recursively and returns a handle for every entry reachable
// from it, including root itself. Symlinks below root are reported but never followed.
//
// A root that is a symlink to a directory is resolved and walked; entry paths keep
// the link as their prefix.
//
// A root that does not exist yields no entries and no error. Entries that cannot be
// read during the walk are skipped. Only cancellation of ctx is returned as an error.
func Enumerate(ctx context.Context, root string, cfg WalkConfig) ([]Entry, error) {
	log := logger{w: cfg.Debug}

	if root == "" {
		root = "."
	}

	root = filepath.Clean(root)

	info, err := os.Lstat(root)
	if err != nil {
		log.printf("[debug]: root %q not accessible: %v\n", root, err)

		return []Entry{}, nil
	}

	walkRoot := root

	if info.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			if target, err := os.Stat(resolved); err == nil && target.IsDir() {
				log.printf("[debug]: root %s resolves to %s\n", root, resolved)

				walkRoot = resolved
				info = target
			}
		}
	}

	if !info.IsDir() {
		cfg.Tracker.addDiscovered()

		return []Entry{{Path: root}}, nil
	}

	var (
		mu       sync.Mutex
		entries  []Entry
		seenRoot bool
	)

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: cfg.NumWorkers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			mu.Lock()
			log.printf("[debug]: error accessing path %s: %v\n", path, err)
			mu.Unlock()
			cfg.Tracker.addSkipped()

			return nil // Silently skip errors
		}

		if d == nil {
			return nil
		}

		isRoot := filepath.Clean(path) == walkRoot

		if walkRoot != root {
			if rel, err := filepath.Rel(walkRoot, path); err == nil {
				path = filepath.Join(root, rel)
			}
		}

		mu.Lock()
		entries = append(entries, Entry{Path: path})

		if isRoot {
			seenRoot = true
		}
		mu.Unlock()

		cfg.Tracker.addDiscovered()

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %q: %w", root, walkErr)
	}

	if !seenRoot {
		entries = append(entries, Entry{Path: root})
		cfg.Tracker.addDiscovered()
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}
