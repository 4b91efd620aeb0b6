package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const indexFile = "index.db"

// Index is a SQLite table of run metadata and summary metrics, kept beside
// the run directories so runs can be ranked without reading every
// metadata.json.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to index: %w", err)
	}
	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: index migration failed: %w", err)
	}
	return idx, nil
}

// Index opens the store's index database.
func (s *Store) Index() (*Index, error) {
	return OpenIndex(filepath.Join(s.baseDir, indexFile))
}

func (i *Index) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			script TEXT NOT NULL,
			integrator TEXT NOT NULL,
			seed INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			created_ms INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_metrics (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (run_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_run_metrics_name ON run_metrics(name, value);
	`
	_, err := i.db.Exec(schema)
	return err
}

func (i *Index) Close() error {
	if i.db != nil {
		return i.db.Close()
	}
	return nil
}

// Record inserts or replaces a run and its metrics.
func (i *Index) Record(meta RunMetadata) error {
	if meta.ID == "" {
		return fmt.Errorf("storage: cannot index run without id")
	}
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO runs (id, preset, script, integrator, seed, frames, created_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Preset, meta.Script, meta.Integrator, meta.Seed, meta.Frames, meta.Timestamp.UnixMilli(),
	); err != nil {
		return fmt.Errorf("storage: cannot index run: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM run_metrics WHERE run_id = ?", meta.ID); err != nil {
		return fmt.Errorf("storage: cannot clear metrics: %w", err)
	}
	for name, v := range meta.Metrics {
		if _, err := tx.Exec(
			"INSERT INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)",
			meta.ID, name, v,
		); err != nil {
			return fmt.Errorf("storage: cannot index metric %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Rebuild replaces the index contents with every run in the store and
// returns how many were indexed.
func (i *Index) Rebuild(s *Store) (int, error) {
	runs, err := s.List()
	if err != nil {
		return 0, err
	}
	if _, err := i.db.Exec("DELETE FROM run_metrics; DELETE FROM runs;"); err != nil {
		return 0, fmt.Errorf("storage: cannot clear index: %w", err)
	}
	for _, run := range runs {
		if err := i.Record(run); err != nil {
			return 0, err
		}
	}
	return len(runs), nil
}

// RankedRun is one row of Top.
type RankedRun struct {
	ID         string
	Preset     string
	Script     string
	Integrator string
	Seed       int64
	Created    time.Time
	Value      float64
}

// Top returns up to limit runs ordered by the named metric, highest first
// unless ascending is set. Runs without the metric are skipped.
func (i *Index) Top(metric string, limit int, ascending bool) ([]RankedRun, error) {
	if limit <= 0 {
		limit = 10
	}
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := i.db.Query(
		`SELECT r.id, r.preset, r.script, r.integrator, r.seed, r.created_ms, m.value
		 FROM runs r JOIN run_metrics m ON m.run_id = r.id
		 WHERE m.name = ?
		 ORDER BY m.value `+order+`, r.created_ms ASC
		 LIMIT ?`,
		metric, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query index: %w", err)
	}
	defer rows.Close()

	var out []RankedRun
	for rows.Next() {
		var r RankedRun
		var ms int64
		if err := rows.Scan(&r.ID, &r.Preset, &r.Script, &r.Integrator, &r.Seed, &ms, &r.Value); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Created = time.UnixMilli(ms)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Count returns the number of indexed runs.
func (i *Index) Count() (int, error) {
	var n int
	if err := i.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}
