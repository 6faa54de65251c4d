// ABOUTME: SQLite-backed history of plan runs
// ABOUTME: The engine stays stateless; handlers record runs here after the fact

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS plan_runs (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMP NOT NULL,
	processes   INTEGER NOT NULL,
	resources   INTEGER NOT NULL,
	deficits    INTEGER NOT NULL,
	efficiency  REAL NOT NULL,
	total_cost  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plan_runs_created_at ON plan_runs(created_at DESC);
`

// Run is one recorded engine invocation.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Processes  int       `json:"processes"`
	Resources  int       `json:"resources"`
	Deficits   int       `json:"deficits"`
	Efficiency float64   `json:"efficiency"`
	TotalCost  float64   `json:"total_cost"`
}

// Store persists plan run history.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun records a completed run. The run id is assigned here when empty.
func (s *Store) SaveRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plan_runs (id, created_at, processes, resources, deficits, efficiency, total_cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Processes, run.Resources, run.Deficits, run.Efficiency, run.TotalCost)
	if err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, processes, resources, deficits, efficiency, total_cost
		 FROM plan_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Processes, &r.Resources, &r.Deficits, &r.Efficiency, &r.TotalCost); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
