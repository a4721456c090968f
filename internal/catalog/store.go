// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog maintains a local SQLite catalog of institution
// records, so institution resolution can run repeatedly without hitting
// the upstream API. The catalog implements institution.Source.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-id/pkg/types"
)

const dbFile = "institutions.db"

// Store manages the institution catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/institutions.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	catalogDir := cfg.CatalogDir
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	if err := os.MkdirAll(catalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(catalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	s := &Store{
		db:         db,
		catalogDir: catalogDir,
		maxResults: maxResults,
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
		`CREATE TABLE IF NOT EXISTS institutions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			country_code TEXT,
			type TEXT,
			homepage_url TEXT,
			alternates TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_institutions_name ON institutions(display_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='institutions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE institutions_fts USING fts5(display_name, alternates, content=institutions, content_rowid=rowid)`,
			`CREATE TRIGGER institutions_ai AFTER INSERT ON institutions BEGIN
				INSERT INTO institutions_fts(rowid, display_name, alternates) VALUES (new.rowid, new.display_name, new.alternates);
			END`,
			`CREATE TRIGGER institutions_ad AFTER DELETE ON institutions BEGIN
				INSERT INTO institutions_fts(institutions_fts, rowid, display_name, alternates) VALUES('delete', old.rowid, old.display_name, old.alternates);
			END`,
			`CREATE TRIGGER institutions_au AFTER UPDATE ON institutions BEGIN
				INSERT INTO institutions_fts(institutions_fts, rowid, display_name, alternates) VALUES('delete', old.rowid, old.display_name, old.alternates);
				INSERT INTO institutions_fts(rowid, display_name, alternates) VALUES (new.rowid, new.display_name, new.alternates);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog ingestion run.
type IngestSummary struct {
	Added   int
	Updated int
	Skipped int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Added + s.Updated + s.Skipped
}

// Ingest upserts institution records into the catalog. Records without a
// source ID or display name are skipped; the rest of the batch continues.
func (s *Store) Ingest(ctx context.Context, records []types.RawInstitutionRecord) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary IngestSummary
	for _, rec := range records {
		if rec.SourceID == "" || rec.DisplayName == "" {
			summary.Skipped++
			continue
		}

		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM institutions WHERE id = ?`, rec.SourceID,
		).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("checking record %s: %w", rec.SourceID, err)
		}

		alternatesJSON, _ := json.Marshal(rec.AlternateNames)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO institutions (id, display_name, country_code, type, homepage_url, alternates)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				display_name=excluded.display_name, country_code=excluded.country_code,
				type=excluded.type, homepage_url=excluded.homepage_url, alternates=excluded.alternates`,
			rec.SourceID, rec.DisplayName, rec.CountryCode, rec.Type, rec.HomepageURL,
			string(alternatesJSON),
		)
		if err != nil {
			return summary, fmt.Errorf("upserting record %s: %w", rec.SourceID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	return summary, tx.Commit()
}

// Lookup returns up to limit candidate records for the query, trying
// FTS5 token matching first and falling back to substring LIKE matching
// for abbreviations and partial words FTS cannot see. Implements
// institution.Source.
func (s *Store) Lookup(ctx context.Context, query string, limit int) ([]types.RawInstitutionRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	records, err := s.queryRecords(ctx,
		`SELECT i.id, i.display_name, i.country_code, i.type, i.homepage_url, i.alternates
		 FROM institutions_fts
		 JOIN institutions i ON i.rowid = institutions_fts.rowid
		 WHERE institutions_fts MATCH ?
		 ORDER BY institutions_fts.rank
		 LIMIT ?`,
		ftsQuery(query), limit)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return s.queryRecords(ctx,
		`SELECT id, display_name, country_code, type, homepage_url, alternates
		 FROM institutions
		 WHERE lower(display_name) LIKE ? OR lower(alternates) LIKE ?
		 ORDER BY display_name
		 LIMIT ?`,
		pattern, pattern, limit)
}

// Count returns the number of catalogued institutions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM institutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting institutions: %w", err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]types.RawInstitutionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []types.RawInstitutionRecord
	for rows.Next() {
		var (
			rec            types.RawInstitutionRecord
			country        sql.NullString
			instType       sql.NullString
			homepage       sql.NullString
			alternatesJSON sql.NullString
		)
		if err := rows.Scan(&rec.SourceID, &rec.DisplayName, &country, &instType, &homepage, &alternatesJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.CountryCode = country.String
		rec.Type = instType.String
		rec.HomepageURL = homepage.String
		if alternatesJSON.Valid {
			json.Unmarshal([]byte(alternatesJSON.String), &rec.AlternateNames)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ftsQuery sanitizes a raw user query into an FTS5 prefix-match
// expression: each token becomes a quoted prefix term, joined with OR so
// any token can hit.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, fmt.Sprintf(`"%s"*`, f))
	}
	return strings.Join(terms, " OR ")
}
