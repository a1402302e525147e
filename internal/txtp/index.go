package txtp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Index persists one row per emitted artifact, keyed by content hash.
// It doubles as cross-run duplicate suppression: re-running over the
// same banks records nothing new and rewrites nothing.
type Index struct {
	db   *sql.DB
	path string
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS artifacts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    hash TEXT NOT NULL UNIQUE,
    run_id TEXT NOT NULL,
    caller TEXT,
    tags TEXT,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
`

// OpenIndex initializes or connects to the artifact index database.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(indexSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Path returns the database file path.
func (ix *Index) Path() string { return ix.path }

// Record inserts one artifact row. It reports false when the content
// hash was already recorded, by this run or an earlier one.
func (ix *Index) Record(ctx context.Context, name, hash, runID, caller, tags string) (bool, error) {
	res, err := ix.db.ExecContext(
		ctx,
		`INSERT INTO artifacts (name, hash, run_id, caller, tags, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(hash) DO NOTHING`,
		name,
		hash,
		runID,
		nullableString(caller),
		nullableString(tags),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("insert artifact: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// Names returns every recorded artifact name in insertion order.
func (ix *Index) Names(ctx context.Context) ([]string, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT name FROM artifacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list artifact names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountRun returns how many artifacts one run recorded.
func (ix *Index) CountRun(ctx context.Context, runID string) (int64, error) {
	row := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts WHERE run_id = ?`, runID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count run artifacts: %w", err)
	}
	return count, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
