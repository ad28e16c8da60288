package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DataDir returns the directory holding the database, honoring XDG_DATA_HOME.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "simple-rss"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "simple-rss"), nil
}

func InitDBWithSchema(schemaSQL string) (*sql.DB, *Queries, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	return openDB(filepath.Join(dir, "simple-rss.db"), schemaSQL)
}

// InitTestDB opens a database at the given path, for tests.
func InitTestDB(path, schemaSQL string) (*sql.DB, *Queries, error) {
	return openDB(path, schemaSQL)
}

func openDB(path, schemaSQL string) (*sql.DB, *Queries, error) {
	db, err := sql.Open("sqlite3", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, nil, err
	}

	if schemaSQL != "" {
		if _, err := db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	return db, New(db), nil
}
