// ABOUTME: Sync journal database connection management
// ABOUTME: Opens SQLite with WAL mode at an XDG path and initializes the schema
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the XDG-compliant journal database path.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "performancy", "journal.db")
}

func OpenDatabase(path string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitSchema creates the journal table if missing.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_journal (
			id TEXT PRIMARY KEY,
			deal_id TEXT,
			operation TEXT NOT NULL,
			stage TEXT,
			outcome TEXT NOT NULL,
			detail TEXT,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}
