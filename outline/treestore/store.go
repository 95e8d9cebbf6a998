// Package treestore persists outline documents, with a SQLite implementation
// for local use.
package treestore

import (
	"errors"
	"time"

	"github.com/kastheco/hisect/outline"
)

// ErrNotFound is returned when a named document does not exist.
var ErrNotFound = errors.New("document not found")

// Document holds the stored metadata of one outline.
type Document struct {
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for outline persistence.
type Store interface {
	// Save replaces the stored nodes of name, creating the document if needed.
	Save(name string, records []outline.Record) error
	// Load returns the nodes of name ordered by parent and position.
	Load(name string) ([]outline.Record, error)
	Rename(oldName, newName string) error
	Delete(name string) error

	// Queries
	Get(name string) (Document, error)
	List() ([]Document, error)

	// Health
	Ping() error

	// Close releases any resources held by the store.
	Close() error
}

// LoadTree loads name and rebuilds its tree.
func LoadTree(s Store, name string) (*outline.Tree, error) {
	records, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return outline.FromRecords(records)
}

// SaveTree stores the current state of t under name.
func SaveTree(s Store, name string, t *outline.Tree) error {
	return s.Save(name, t.Records())
}
