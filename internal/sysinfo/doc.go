// Package sysinfo provides directory metadata scanning and aggregation.
//
// It enumerates a directory tree using fastwalk without following symlinks,
// classifies every entry by its own (lstat) metadata and file suffix, and
// folds per-worker partial results into a single Report. The merge is
// order independent, so the Report does not depend on how entries were
// partitioned across workers.
package sysinfo
