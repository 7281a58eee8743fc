// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists sanity-check runs in a local SQLite database so
// parameter sweeps and reruns can be compared later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/clusterqc/pkg/types"
)

// DefaultDBName is the database file created under the base directory when
// no explicit path is configured.
const DefaultDBName = "clusterqc.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded batch run.
type Run struct {
	ID           int64
	StartedAt    time.Time
	BaseDir      string
	Rcut         float64
	MinNeighbors int
	Analyzed     int
	Failed       int
	Anomalous    int
	Moved        int
}

// Open opens or creates the history database at path, creating the schema if
// it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			base_dir TEXT NOT NULL,
			rcut REAL NOT NULL,
			min_neighbors INTEGER NOT NULL,
			analyzed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			anomalous INTEGER NOT NULL,
			moved INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_clusters (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			cluster_id TEXT NOT NULL,
			n_atoms INTEGER NOT NULL,
			n_xe INTEGER NOT NULL,
			counts TEXT NOT NULL,
			verdict TEXT NOT NULL,
			anomalous INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			moved INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_clusters_run_id ON run_clusters(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun writes one run and its per-cluster reports in a single
// transaction, returning the run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, reports []types.ClusterReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, base_dir, rcut, min_neighbors, analyzed, failed, anomalous, moved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339), run.BaseDir, run.Rcut, run.MinNeighbors,
		run.Analyzed, run.Failed, run.Anomalous, run.Moved,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_clusters (run_id, cluster_id, n_atoms, n_xe, counts, verdict, anomalous, error, moved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		countsJSON, _ := json.Marshal(r.Counts)
		_, err := stmt.ExecContext(ctx,
			runID, r.ID, r.NumAtoms, r.NumXe, string(countsJSON), r.Verdict(), r.Anomalous, r.Error, r.Moved,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting cluster %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, base_dir, rcut, min_neighbors, analyzed, failed, anomalous, moved
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.BaseDir, &r.Rcut, &r.MinNeighbors,
			&r.Analyzed, &r.Failed, &r.Anomalous, &r.Moved); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunClusters returns the per-cluster reports recorded for a run, in batch
// order.
func (s *Store) RunClusters(ctx context.Context, runID int64) ([]types.ClusterReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, n_atoms, n_xe, counts, anomalous, error, moved
		 FROM run_clusters WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run clusters: %w", err)
	}
	defer rows.Close()

	var reports []types.ClusterReport
	for rows.Next() {
		var r types.ClusterReport
		var countsJSON string
		var errStr sql.NullString
		if err := rows.Scan(&r.ID, &r.NumAtoms, &r.NumXe, &countsJSON, &r.Anomalous, &errStr, &r.Moved); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		if errStr.Valid {
			r.Error = errStr.String
		}
		if err := json.Unmarshal([]byte(countsJSON), &r.Counts); err != nil {
			return nil, fmt.Errorf("decoding counts for %s: %w", r.ID, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
