//go:build !unix

package sysinfo

import "os"

// lstat returns the size of path without following symlinks. Platforms without
// numeric uids report owner 0.
func lstat(path string) (uint64, uint32, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, err
	}

	return uint64(info.Size()), 0, nil //nolint:gosec // Size is never negative
}
