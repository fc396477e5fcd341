// Package sqlite implements store.Store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/statrel/mln/pkg/mln/store"
)

// sqliteStore implements the Store interface using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for concurrent readers during long grounding runs
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS evidence (
	atom TEXT PRIMARY KEY,
	truth INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS formula_weights (
	formula_idx INTEGER PRIMARY KEY,
	weight REAL NOT NULL,
	hard INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// UpsertEvidence inserts or updates one evidence atom.
func (s *sqliteStore) UpsertEvidence(ctx context.Context, e store.Evidence) error {
	truth := 0
	if e.Truth {
		truth = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evidence (atom, truth) VALUES (?, ?)
		 ON CONFLICT(atom) DO UPDATE SET truth = excluded.truth`,
		e.Atom, truth)
	return err
}

// ListEvidence returns all evidence atoms ordered by atom text.
func (s *sqliteStore) ListEvidence(ctx context.Context) ([]store.Evidence, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT atom, truth FROM evidence ORDER BY atom`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Evidence
	for rows.Next() {
		var e store.Evidence
		var truth int
		if err := rows.Scan(&e.Atom, &truth); err != nil {
			return nil, err
		}
		e.Truth = truth != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveWeights replaces the stored weight for each given formula index in a
// single transaction.
func (s *sqliteStore) SaveWeights(ctx context.Context, ws []store.FormulaWeight) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, w := range ws {
		hard := 0
		if w.Hard {
			hard = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO formula_weights (formula_idx, weight, hard) VALUES (?, ?, ?)
			 ON CONFLICT(formula_idx) DO UPDATE SET weight = excluded.weight, hard = excluded.hard`,
			w.Index, w.Weight, hard); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadWeights returns all stored weights ordered by formula index.
func (s *sqliteStore) LoadWeights(ctx context.Context) ([]store.FormulaWeight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT formula_idx, weight, hard FROM formula_weights ORDER BY formula_idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.FormulaWeight
	for rows.Next() {
		var w store.FormulaWeight
		var hard int
		if err := rows.Scan(&w.Index, &w.Weight, &hard); err != nil {
			return nil, err
		}
		w.Hard = hard != 0
		out = append(out, w)
	}
	return out, rows.Err()
}
