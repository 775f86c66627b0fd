// SPDX-License-Identifier: MIT

// Package store provides SQLite persistence for the well catalog and
// matching history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

// Scan outcomes recorded per well.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// WellRecord is one cataloged well directory.
type WellRecord struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Field     string    `json:"field,omitempty"`
	Path      string    `json:"path"`
	DepthFrom int64     `json:"depth_from"` // cm
	DepthTo   int64     `json:"depth_to"`   // cm
	Attrs     []string  `json:"attrs"`
	ScanTime  time.Time `json:"scan_time"`
	Status    string    `json:"status"` // ok|failed
	Error     string    `json:"error,omitempty"`
}

// MatchRecord is one stored matching run.
type MatchRecord struct {
	ID        string          `json:"id"`
	WellSlug  string          `json:"well"`
	Mnemonic  string          `json:"mnemonic"`
	CreatedAt time.Time       `json:"created_at"`
	Report    json.RawMessage `json:"report"`
}

// Store provides SQLite persistence for catalog metadata.
type Store struct {
	db *sql.DB
}

// New initializes a SQLite store at dbPath and runs migrations.
// WAL mode plus busy_timeout suits the read-heavy API workload.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS wells (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		field TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL,
		depth_from INTEGER NOT NULL,
		depth_to INTEGER NOT NULL,
		attrs TEXT NOT NULL DEFAULT '',
		scan_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'ok' CHECK(status IN ('ok', 'failed')),
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS match_reports (
		id TEXT PRIMARY KEY,
		well_slug TEXT NOT NULL,
		mnemonic TEXT NOT NULL,
		created_at TEXT NOT NULL,
		report TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_wells_field ON wells(field);
	CREATE INDEX IF NOT EXISTS idx_match_reports_well ON match_reports(well_slug, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ReplaceWells atomically swaps the catalog for the given records.
// A scan always produces the full well list, so replace-all keeps the
// table consistent with the data directory without diffing.
func (s *Store) ReplaceWells(ctx context.Context, wells []WellRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wells`); err != nil {
		return err
	}

	query := `
	INSERT INTO wells (slug, name, field, path, depth_from, depth_to, attrs, scan_time, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, w := range wells {
		status := w.Status
		if status == "" {
			status = StatusOK
		}
		_, err := tx.ExecContext(ctx, query,
			w.Slug,
			w.Name,
			w.Field,
			w.Path,
			w.DepthFrom,
			w.DepthTo,
			strings.Join(w.Attrs, ","),
			w.ScanTime.UTC().Format(time.RFC3339),
			status,
			w.Error,
		)
		if err != nil {
			return fmt.Errorf("insert well %s: %w", w.Slug, err)
		}
	}

	return tx.Commit()
}

// GetWells retrieves all cataloged wells ordered by slug.
func (s *Store) GetWells(ctx context.Context) ([]WellRecord, error) {
	query := `
	SELECT slug, name, field, path, depth_from, depth_to, attrs, scan_time, status, error
	FROM wells
	ORDER BY slug
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var wells []WellRecord
	for rows.Next() {
		w, err := scanWell(rows)
		if err != nil {
			return nil, err
		}
		wells = append(wells, w)
	}

	return wells, rows.Err()
}

// GetWell retrieves a single well by slug. Returns nil when not found.
func (s *Store) GetWell(ctx context.Context, slug string) (*WellRecord, error) {
	query := `
	SELECT slug, name, field, path, depth_from, depth_to, attrs, scan_time, status, error
	FROM wells
	WHERE slug = ?
	`

	row := s.db.QueryRowContext(ctx, query, slug)
	w, err := scanWell(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWell(row rowScanner) (WellRecord, error) {
	var w WellRecord
	var attrs, scanTime string

	if err := row.Scan(&w.Slug, &w.Name, &w.Field, &w.Path,
		&w.DepthFrom, &w.DepthTo, &attrs, &scanTime, &w.Status, &w.Error); err != nil {
		return WellRecord{}, err
	}

	if attrs != "" {
		w.Attrs = strings.Split(attrs, ",")
	}
	w.ScanTime, _ = time.Parse(time.RFC3339, scanTime)
	return w, nil
}

// SaveMatchReport stores a matching run for later retrieval.
func (s *Store) SaveMatchReport(ctx context.Context, rec MatchRecord) error {
	query := `
	INSERT INTO match_reports (id, well_slug, mnemonic, created_at, report)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.WellSlug,
		rec.Mnemonic,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		string(rec.Report),
	)
	return err
}

// GetMatchReports retrieves matching runs for a well, newest first.
func (s *Store) GetMatchReports(ctx context.Context, wellSlug string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, well_slug, mnemonic, created_at, report
	FROM match_reports
	WHERE well_slug = ?
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, wellSlug, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var createdAt, report string

		if err := rows.Scan(&rec.ID, &rec.WellSlug, &rec.Mnemonic, &createdAt, &report); err != nil {
			return nil, err
		}

		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.Report = json.RawMessage(report)
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// CountWells returns the number of cataloged wells.
func (s *Store) CountWells(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wells`).Scan(&n)
	return n, err
}
