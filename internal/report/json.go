package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/idelchi/sysinfo/internal/sysinfo"
)

// FileName is the name of the report written inside the output directory.
const FileName = "sysinfo_report.json"

// Path returns the report path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Encode writes r to w as indented JSON.
func Encode(r *sysinfo.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}

// WriteJSON writes r to path as indented JSON. The report is written to a
// temporary file in the same directory and renamed into place, so a partial
// report is never left behind.
func WriteJSON(r *sysinfo.Report, path string) (retErr error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sysinfo-report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(r, tmp); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // Report is meant to be shared
		return fmt.Errorf("setting report permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return fmt.Errorf("renaming report file: %w", err)
		}

		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("replacing report file %s: %w", path, err)
		}

		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("renaming report file: %w", err)
		}
	}

	return nil
}
