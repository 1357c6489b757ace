package backends

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go driver, registers "sqlite"

	"github.com/sinclairtarget/wcasa/internal/tally"
)

const SQLiteBackendName string = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS blame_cache (
	key    TEXT PRIMARY KEY,
	report TEXT NOT NULL
)`

// Stores per-file reports in a SQLite database. Reports are stored as JSON.
type SQLiteBackend struct {
	Path string
	db   *sql.DB
}

func (b *SQLiteBackend) Name() string {
	return SQLiteBackendName
}

func (b *SQLiteBackend) Open() error {
	db, err := sql.Open("sqlite", b.Path)
	if err != nil {
		return fmt.Errorf("could not open sqlite cache: %w", err)
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create sqlite cache table: %w", err)
	}

	b.db = db
	return nil
}

func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	return err
}

func (b *SQLiteBackend) Get(key string) (tally.Report, bool, error) {
	if b.db == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	var data string
	err := b.db.QueryRow(
		"SELECT report FROM blame_cache WHERE key = ?",
		key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return tally.Report{}, false, nil
	} else if err != nil {
		return tally.Report{}, false, err
	}

	var r tally.Report
	err = json.Unmarshal([]byte(data), &r)
	if err != nil {
		return tally.Report{}, false, fmt.Errorf("corrupt cache entry: %w", err)
	}

	return r, true, nil
}

func (b *SQLiteBackend) Add(key string, r tally.Report) error {
	if b.db == nil {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = b.db.Exec(
		"INSERT OR REPLACE INTO blame_cache (key, report) VALUES (?, ?)",
		key,
		string(data),
	)
	return err
}

func (b *SQLiteBackend) Clear() error {
	if b.db != nil {
		_, err := b.db.Exec("DELETE FROM blame_cache")
		return err
	}

	err := os.Remove(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
