package sysinfo

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Report.Check.
var (
	// ErrTotalSizeMismatch means TotalSize differs from the summed fact sizes.
	ErrTotalSizeMismatch = errors.New("total size does not match sum of file sizes")
	// ErrFileTypeCountMismatch means file type counts do not add up to the file count.
	ErrFileTypeCountMismatch = errors.New("file type counts do not match number of files")
	// ErrOwnershipCountMismatch means ownership counts do not add up to the file count.
	ErrOwnershipCountMismatch = errors.New("ownership counts do not match number of files")
)

// Report is the aggregate result of one scan.
type Report struct {
	// TotalSize is the sum of all fact sizes.
	TotalSize uint64 `json:"total_size"`
	// FileTypes maps a file type label to the number of entries with that label.
	FileTypes map[string]uint64 `json:"file_types"`
	// Ownership maps an owner uid to the number of entries it owns.
	Ownership map[uint32]uint64 `json:"ownership"`
	// Files holds every classified entry, in no particular order.
	Files []EntryFact `json:"files"`
}

// Check verifies the Report's sum invariants.
func (r *Report) Check() error {
	var size uint64
	for _, f := range r.Files {
		size += f.Size
	}

	if size != r.TotalSize {
		return fmt.Errorf("%w: total %d, sum %d", ErrTotalSizeMismatch, r.TotalSize, size)
	}

	var types uint64
	for _, n := range r.FileTypes {
		types += n
	}

	if types != uint64(len(r.Files)) {
		return fmt.Errorf("%w: %d counted, %d files", ErrFileTypeCountMismatch, types, len(r.Files))
	}

	var owners uint64
	for _, n := range r.Ownership {
		owners += n
	}

	if owners != uint64(len(r.Files)) {
		return fmt.Errorf("%w: %d counted, %d files", ErrOwnershipCountMismatch, owners, len(r.Files))
	}

	return nil
}
