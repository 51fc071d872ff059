// Package store persists portfolio content, scraped quotes and scrape run
// history in a single SQLite database file.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrations string

type Store struct {
	db     *sql.DB
	logger *logrus.Logger
}

var ErrNotFound = fmt.Errorf("not found")

// Open creates or opens the database at path and applies the schema.
// The connection pool is capped at one connection since SQLite allows a
// single writer and the scraper and API share this store.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Debugf("Database ready at %s", path)

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime reads back timestamps this store wrote itself; a malformed
// value scans as the zero time rather than failing the row.
func parseTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}
