package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Register the sqlite driver

	"github.com/idelchi/sysinfo/internal/sysinfo"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    total_size INTEGER NOT NULL,
    file_count INTEGER NOT NULL,
    scanned_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS facts (
    scan_id TEXT NOT NULL REFERENCES scans(id),
    path TEXT NOT NULL,
    size INTEGER NOT NULL,
    file_type TEXT NOT NULL,
    owner INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS file_types (
    scan_id TEXT NOT NULL REFERENCES scans(id),
    file_type TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (scan_id, file_type)
);
CREATE TABLE IF NOT EXISTS ownership (
    scan_id TEXT NOT NULL REFERENCES scans(id),
    owner INTEGER NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (scan_id, owner)
);
CREATE INDEX IF NOT EXISTS facts_scan_id ON facts(scan_id);
`

// OpenDB opens (creating if needed) the sqlite database at path and ensures the schema exists.
func OpenDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA temp_store=MEMORY;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()

			return nil, fmt.Errorf("configuring database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

// SaveSQLite records r as a new scan of root in the sqlite database at path and
// returns the generated scan id.
func SaveSQLite(ctx context.Context, path, root string, r *sysinfo.Report) (string, error) {
	db, err := OpenDB(path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	scanID := uuid.NewString()

	if err := insertScan(ctx, db, scanID, root, r); err != nil {
		return "", fmt.Errorf("saving scan to %q: %w", path, err)
	}

	return scanID, nil
}

func insertScan(ctx context.Context, db *sql.DB, scanID, root string, r *sysinfo.Report) (retErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if retErr != nil {
			tx.Rollback() //nolint:errcheck // Original error takes precedence
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, root, total_size, file_count, scanned_at) VALUES (?, ?, ?, ?, ?)`,
		scanID, root, int64(r.TotalSize), len(r.Files), time.Now().Unix(), //nolint:gosec // sqlite INTEGER is signed
	); err != nil {
		return err
	}

	facts, err := tx.PrepareContext(ctx,
		`INSERT INTO facts (scan_id, path, size, file_type, owner) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer facts.Close()

	for _, f := range r.Files {
		//nolint:gosec // sqlite INTEGER is signed
		if _, err := facts.ExecContext(ctx, scanID, f.Path, int64(f.Size), f.FileType, int64(f.Owner)); err != nil {
			return err
		}
	}

	for fileType, n := range r.FileTypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO file_types (scan_id, file_type, count) VALUES (?, ?, ?)`,
			scanID, fileType, int64(n), //nolint:gosec // sqlite INTEGER is signed
		); err != nil {
			return err
		}
	}

	for owner, n := range r.Ownership {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ownership (scan_id, owner, count) VALUES (?, ?, ?)`,
			scanID, int64(owner), int64(n), //nolint:gosec // sqlite INTEGER is signed
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
