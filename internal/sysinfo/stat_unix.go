//go:build unix

package sysinfo

import "golang.org/x/sys/unix"

// lstat returns the size and owner uid of path without following symlinks.
func lstat(path string) (uint64, uint32, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, 0, err
	}

	return uint64(st.Size), st.Uid, nil //nolint:gosec // Size is never negative
}
