// Package catalog persists per-case outcomes in a SQLite database so
// batches can be inspected after the fact with `gridexp runs`.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded case outcome.
type Entry struct {
	ID               int64
	Experiment       string
	CasePath         string
	SystemTag        string
	DisturbanceTag   string
	ControllerTag    string
	RandomizationTag string
	Status           string
	LastError        string
	StoppedAt        float64
	Steps            int
	StartedAt        time.Time
	Elapsed          time.Duration
}

// Store is a catalog backed by one SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		experiment TEXT NOT NULL,
		case_path TEXT NOT NULL,
		system_tag TEXT NOT NULL,
		disturbance_tag TEXT NOT NULL,
		controller_tag TEXT NOT NULL,
		randomization_tag TEXT NOT NULL,
		status TEXT NOT NULL,
		last_error TEXT NOT NULL DEFAULT '',
		stopped_at REAL NOT NULL DEFAULT 0,
		steps INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		elapsed_ms INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_cases_experiment ON cases(experiment);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one case outcome.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO cases (
			experiment, case_path, system_tag, disturbance_tag,
			controller_tag, randomization_tag, status, last_error,
			stopped_at, steps, started_at, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Experiment, e.CasePath, e.SystemTag, e.DisturbanceTag,
		e.ControllerTag, e.RandomizationTag, e.Status, e.LastError,
		e.StoppedAt, e.Steps, e.StartedAt, e.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("catalog: record case: %w", err)
	}
	return nil
}

// List returns recorded outcomes in insertion order. An empty
// experiment name returns every entry.
func (s *Store) List(experiment string) ([]Entry, error) {
	query := `
		SELECT id, experiment, case_path, system_tag, disturbance_tag,
			controller_tag, randomization_tag, status, last_error,
			stopped_at, steps, started_at, elapsed_ms
		FROM cases`
	args := []any{}
	if experiment != "" {
		query += ` WHERE experiment = ?`
		args = append(args, experiment)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list cases: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var elapsedMS int64
		if err := rows.Scan(&e.ID, &e.Experiment, &e.CasePath,
			&e.SystemTag, &e.DisturbanceTag, &e.ControllerTag,
			&e.RandomizationTag, &e.Status, &e.LastError,
			&e.StoppedAt, &e.Steps, &e.StartedAt, &elapsedMS); err != nil {
			return nil, fmt.Errorf("catalog: scan case: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
