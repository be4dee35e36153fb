// Package results persists completed grid searches to sqlite so runs can be
// compared over time.
package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunRecord is one persisted grid search.
type RunRecord struct {
	ID            int64           `json:"id"`
	RunID         string          `json:"run_id"`
	Params        json.RawMessage `json:"params"`
	BestSpeed     float64         `json:"best_speed_mps"`
	MetConstraint bool            `json:"met_constraint"`
	ElapsedMS     int64           `json:"elapsed_ms"`
	StartedAt     time.Time       `json:"started_at"`
}

// CandidateRow is one candidate speed's aggregated outcome within a run.
// MeanTraversal is NULL in the database when no trial produced a
// measurable traversal.
type CandidateRow struct {
	RunID         string   `json:"run_id"`
	Speed         float64  `json:"speed_mps"`
	Probability   float64  `json:"probability"`
	MeanTraversal *float64 `json:"mean_traversal_seconds,omitempty"`
	Trials        int      `json:"trials"`
	Satisfied     int      `json:"satisfied"`
	ValidTrials   int      `json:"valid_trials"`
	Degraded      int      `json:"degraded"`
}

// Store provides persistence for search runs and their candidates.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the results database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS search_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			params TEXT,
			best_speed DOUBLE NOT NULL,
			met_constraint BOOLEAN NOT NULL,
			elapsed_ms BIGINT NOT NULL,
			started_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			speed DOUBLE NOT NULL,
			probability DOUBLE NOT NULL,
			mean_traversal DOUBLE,
			trials INTEGER NOT NULL,
			satisfied INTEGER NOT NULL,
			valid_trials INTEGER NOT NULL,
			degraded INTEGER NOT NULL,
			FOREIGN KEY(run_id) REFERENCES search_runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_run_candidates_run
			ON run_candidates(run_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns a fresh identifier for a search run.
func NewRunID() string {
	return uuid.New().String()
}

// InsertRun persists a completed run and all of its candidate rows in one
// transaction.
func (s *Store) InsertRun(rec RunRecord, candidates []CandidateRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO search_runs (run_id, params, best_speed, met_constraint, elapsed_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		string(rec.Params),
		rec.BestSpeed,
		rec.MetConstraint,
		rec.ElapsedMS,
		rec.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.RunID, err)
	}

	for _, c := range candidates {
		_, err = tx.Exec(`
			INSERT INTO run_candidates (run_id, speed, probability, mean_traversal, trials, satisfied, valid_trials, degraded)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, c.Speed, c.Probability, c.MeanTraversal,
			c.Trials, c.Satisfied, c.ValidTrials, c.Degraded,
		)
		if err != nil {
			return fmt.Errorf("inserting candidate %.2f for run %s: %w", c.Speed, rec.RunID, err)
		}
	}

	return tx.Commit()
}

// GetRun returns a single run by ID, or nil when it does not exist.
func (s *Store) GetRun(runID string) (*RunRecord, error) {
	var rec RunRecord
	var params sql.NullString
	var startedAt string

	err := s.db.QueryRow(`
		SELECT id, run_id, params, best_speed, met_constraint, elapsed_ms, started_at
		FROM search_runs WHERE run_id = ?`, runID).Scan(
		&rec.ID, &rec.RunID, &params, &rec.BestSpeed, &rec.MetConstraint, &rec.ElapsedMS, &startedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	if params.Valid && params.String != "" {
		rec.Params = json.RawMessage(params.String)
	}
	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at for run %s: %w", runID, err)
	}
	rec.StartedAt = t

	return &rec, nil
}

// Candidates returns a run's candidate rows ordered by speed.
func (s *Store) Candidates(runID string) ([]CandidateRow, error) {
	rows, err := s.db.Query(`
		SELECT run_id, speed, probability, mean_traversal, trials, satisfied, valid_trials, degraded
		FROM run_candidates WHERE run_id = ? ORDER BY speed ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing candidates for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []CandidateRow
	for rows.Next() {
		var c CandidateRow
		var traversal sql.NullFloat64
		if err := rows.Scan(&c.RunID, &c.Speed, &c.Probability, &traversal,
			&c.Trials, &c.Satisfied, &c.ValidTrials, &c.Degraded); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		if traversal.Valid {
			v := traversal.Float64
			c.MeanTraversal = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRuns returns recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT id, run_id, params, best_speed, met_constraint, elapsed_ms, started_at
		FROM search_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var params sql.NullString
		var startedAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &params, &rec.BestSpeed,
			&rec.MetConstraint, &rec.ElapsedMS, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if params.Valid && params.String != "" {
			rec.Params = json.RawMessage(params.String)
		}
		t, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at for run row: %w", err)
		}
		rec.StartedAt = t
		out = append(out, rec)
	}
	return out, rows.Err()
}
