package sysinfo

import (
	"errors"
	"testing"
)

func TestReport_Check(t *testing.T) {
	files := []EntryFact{
		{Path: "a.txt", Size: 3, FileType: "txt", Owner: 1},
		{Path: "b", Size: 4, FileType: UnknownType, Owner: 2},
	}

	tests := []struct {
		name   string
		report Report
		want   error
	}{
		{
			name: "consistent",
			report: Report{
				TotalSize: 7,
				FileTypes: map[string]uint64{"txt": 1, UnknownType: 1},
				Ownership: map[uint32]uint64{1: 1, 2: 1},
				Files:     files,
			},
		},
		{
			name: "empty",
			report: Report{
				FileTypes: map[string]uint64{},
				Ownership: map[uint32]uint64{},
				Files:     []EntryFact{},
			},
		},
		{
			name: "total size off",
			report: Report{
				TotalSize: 8,
				FileTypes: map[string]uint64{"txt": 1, UnknownType: 1},
				Ownership: map[uint32]uint64{1: 1, 2: 1},
				Files:     files,
			},
			want: ErrTotalSizeMismatch,
		},
		{
			name: "file type counts off",
			report: Report{
				TotalSize: 7,
				FileTypes: map[string]uint64{"txt": 2, UnknownType: 1},
				Ownership: map[uint32]uint64{1: 1, 2: 1},
				Files:     files,
			},
			want: ErrFileTypeCountMismatch,
		},
		{
			name: "ownership counts off",
			report: Report{
				TotalSize: 7,
				FileTypes: map[string]uint64{"txt": 1, UnknownType: 1},
				Ownership: map[uint32]uint64{1: 1},
				Files:     files,
			},
			want: ErrOwnershipCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Check()

			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
