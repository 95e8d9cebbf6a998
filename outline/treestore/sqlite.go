package treestore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/kastheco/hisect/outline"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS nodes (
	document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	node_id     INTEGER NOT NULL,
	parent_id   INTEGER NOT NULL DEFAULT 0,
	position    INTEGER NOT NULL,
	name        TEXT    NOT NULL DEFAULT '',
	tag         TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (document_id, node_id)
);

CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(document_id, parent_id, position);
`

// SQLiteStore is a Store implementation backed by a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// schema migrations. Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// PRAGMAs are per connection and ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run schema migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

// Save replaces every node of the named document in one transaction.
func (s *SQLiteStore) Save(name string, records []outline.Record) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("document name must not be empty")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(s.now())
	const upsert = `
		INSERT INTO documents (name, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(upsert, name, now, now); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	var docID int64
	if err := tx.QueryRow(`SELECT id FROM documents WHERE name = ?`, name).Scan(&docID); err != nil {
		return fmt.Errorf("lookup document: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (document_id, node_id, parent_id, position, name, tag)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.Exec(docID, r.ID, r.Parent, r.Position, r.Name, r.Tag); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("duplicate node %d in %s", r.ID, name)
			}
			return fmt.Errorf("save node %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored nodes of name.
func (s *SQLiteStore) Load(name string) ([]outline.Record, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}
	const q = `
		SELECT n.node_id, n.parent_id, n.position, n.name, n.tag
		FROM nodes n JOIN documents d ON d.id = n.document_id
		WHERE d.name = ?
		ORDER BY n.parent_id ASC, n.position ASC
	`
	rows, err := s.db.Query(q, name)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	var records []outline.Record
	for rows.Next() {
		var r outline.Record
		if err := rows.Scan(&r.ID, &r.Parent, &r.Position, &r.Name, &r.Tag); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return records, nil
}

// Rename changes the name of a stored document.
func (s *SQLiteStore) Rename(oldName, newName string) error {
	result, err := s.db.Exec(`UPDATE documents SET name = ?, updated_at = ? WHERE name = ?`,
		newName, formatTime(s.now()), oldName)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("document already exists: %s", newName)
		}
		return fmt.Errorf("rename document: %w", err)
	}
	return expectOne(result, oldName)
}

// Delete removes a document and its nodes.
func (s *SQLiteStore) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return expectOne(result, name)
}

// Get returns the metadata of a single document.
func (s *SQLiteStore) Get(name string) (Document, error) {
	const q = `
		SELECT d.name, d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM nodes n WHERE n.document_id = d.id)
		FROM documents d
		WHERE d.name = ?
	`
	doc, err := scanDocument(s.db.QueryRow(q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return doc, err
}

// List returns all documents sorted by name.
func (s *SQLiteStore) List() ([]Document, error) {
	const q = `
		SELECT d.name, d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM nodes n WHERE n.document_id = d.id)
		FROM documents d
		ORDER BY d.name ASC
	`
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (Document, error) {
	var doc Document
	var createdAt, updatedAt string
	if err := row.Scan(&doc.Name, &createdAt, &updatedAt, &doc.Nodes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseTime(updatedAt)
	return doc, nil
}

func expectOne(result sql.Result, name string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// formatTime formats a time.Time as RFC3339 for storage. Zero time returns empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses an RFC3339 string. Returns zero time on empty or invalid input.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isUniqueConstraintError returns true if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
