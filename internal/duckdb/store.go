// Package duckdb loads benchmarking metrics documents into a queryable
// DuckDB database.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding benchmarking results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist. Metric cells arrive as
// strings; numeric ones are stored typed, undefined metrics as NULL.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		name VARCHAR,
		version VARCHAR,
		run_timestamp VARCHAR
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		run_id VARCHAR,
		metrics_table VARCHAR,
		variant_type VARCHAR,
		subtype VARCHAR,
		subset VARCHAR,
		filter VARCHAR,
		genotype VARCHAR,
		qq_field VARCHAR,
		qq VARCHAR,
		truth_total BIGINT,
		truth_tp BIGINT,
		truth_fn BIGINT,
		query_total BIGINT,
		query_tp BIGINT,
		query_fp BIGINT,
		query_unk BIGINT,
		metric_recall DOUBLE,
		metric_precision DOUBLE,
		metric_frac_na DOUBLE,
		metric_f1 DOUBLE,
		truth_titv_ratio DOUBLE,
		query_titv_ratio DOUBLE,
		truth_het_hom_ratio DOUBLE,
		query_het_hom_ratio DOUBLE
	)`)
	return err
}
