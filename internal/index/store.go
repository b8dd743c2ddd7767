// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a SQLite manifest of exported certificates so that
// earlier runs can be searched by plate, policy number, or holder without
// walking the output tree.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/certsplit/pkg/types"
)

const defaultMaxResults = 50

// Store manages the manifest database.
type Store struct {
	db         *sql.DB
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates the manifest database at cfg.Path. It creates
// the parent directory and the schema if they do not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("index database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		maxResults: maxResults,
		now:        time.Now,
	}

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
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS certificates (
			json_path TEXT PRIMARY KEY,
			pdf_path TEXT NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			plate TEXT NOT NULL,
			holder TEXT,
			brand TEXT,
			vehicle_type TEXT,
			year TEXT,
			policy_number TEXT,
			policy_digits TEXT,
			coverage_from TEXT,
			coverage_to TEXT,
			page_start INTEGER NOT NULL,
			page_end INTEGER NOT NULL,
			metadata TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_certificates_plate ON certificates(plate)`,
		`CREATE INDEX IF NOT EXISTS idx_certificates_policy ON certificates(policy_digits)`,
		`CREATE INDEX IF NOT EXISTS idx_certificates_run ON certificates(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one exported artifact under runID. A certificate is keyed
// by its metadata path, so re-running over the same input replaces the
// earlier row instead of duplicating it.
func (s *Store) Record(ctx context.Context, runID, source string, a types.Artifact) error {
	doc, err := json.Marshal(a.Meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	stamp := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		runID, source, stamp,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	m := a.Meta
	_, err = tx.ExecContext(ctx,
		`INSERT INTO certificates (json_path, pdf_path, run_id, plate, holder, brand, vehicle_type, year,
			policy_number, policy_digits, coverage_from, coverage_to, page_start, page_end, metadata, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(json_path) DO UPDATE SET
			pdf_path=excluded.pdf_path, run_id=excluded.run_id, plate=excluded.plate,
			holder=excluded.holder, brand=excluded.brand, vehicle_type=excluded.vehicle_type,
			year=excluded.year, policy_number=excluded.policy_number,
			policy_digits=excluded.policy_digits, coverage_from=excluded.coverage_from,
			coverage_to=excluded.coverage_to, page_start=excluded.page_start,
			page_end=excluded.page_end, metadata=excluded.metadata, indexed_at=excluded.indexed_at`,
		a.JSONPath, a.PDFPath, runID, m.Plate, m.Holder, m.Brand, m.VehicleType, m.Year,
		m.PolicyNumber, m.PolicyDigits, m.FromISO, m.ToISO, a.Block.Start, a.Block.End,
		string(doc), stamp,
	)
	if err != nil {
		return fmt.Errorf("upserting certificate %s: %w", a.JSONPath, err)
	}

	return tx.Commit()
}
