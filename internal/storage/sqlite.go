// Package storage maintains a rebuildable SQLite index of a bibliography
// file for fast lookups. The .bib file remains the source of truth; the
// index is ephemeral and fully rebuilt from it.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/similarity"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Entry is one indexed bibliography entry.
type Entry struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	DOI    string `json:"doi,omitempty"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Year   string `json:"year,omitempty"`
}

const selectEntryFields = `key, entry_type, doi, title, author, year`

// OpenDB opens or creates a SQLite index at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Indexed entries; keys may repeat (duplicates are what we hunt)
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT NOT NULL,
			entry_type TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			author TEXT,
			year TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_entries_key ON entries(key);
		CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi) WHERE doi IS NOT NULL AND doi != '';
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the index and repopulates it from parsed records.
// DOIs are stored normalized so lookups are exact.
func (d *DB) Rebuild(records []bibtex.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (key, entry_type, doi, title, author, year)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(r.Key, r.Type, similarity.NormalizeDOI(r.DOI()),
			r.Title(), r.Author(), r.Year())
		if err != nil {
			return fmt.Errorf("indexing %s: %w", r.Key, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed entries.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// GetByKey returns all entries with the given citation key. More than one
// result means the bibliography itself carries a duplicate key.
func (d *DB) GetByKey(key string) ([]Entry, error) {
	return d.queryEntries(
		"SELECT "+selectEntryFields+" FROM entries WHERE key = ?", key)
}

// FindByDOI returns all entries with the given DOI (compared normalized).
func (d *DB) FindByDOI(doi string) ([]Entry, error) {
	norm := similarity.NormalizeDOI(doi)
	if norm == "" {
		return nil, nil
	}
	return d.queryEntries(
		"SELECT "+selectEntryFields+" FROM entries WHERE doi = ?", norm)
}

// Search returns entries whose title or author contains the query,
// case-insensitively.
func (d *DB) Search(query string) ([]Entry, error) {
	pattern := "%" + query + "%"
	return d.queryEntries(
		"SELECT "+selectEntryFields+` FROM entries
		WHERE title LIKE ? COLLATE NOCASE OR author LIKE ? COLLATE NOCASE
		ORDER BY key`, pattern, pattern)
}

func (d *DB) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Type, &e.DOI, &e.Title, &e.Author, &e.Year); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
