package treestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kastheco/hisect/config"
)

// NewStoreFromConfig opens the document database in the configured data
// directory, creating the directory on first use.
func NewStoreFromConfig(cfg *config.Config) (*SQLiteStore, error) {
	path, err := cfg.DocumentsDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve documents db: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return NewSQLiteStore(path)
}
