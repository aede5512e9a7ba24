package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists cache entries in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the cache_entries table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		stored_at TEXT NOT NULL,
		data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cache_entries_category ON cache_entries(category);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces an entry.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	query := "INSERT OR REPLACE INTO cache_entries (key, category, stored_at, data) VALUES (?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, rec.Key, rec.Category.String(), formatTime(rec.StoredAt), string(rec.Data))
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// LoadAll returns every stored entry, oldest first.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, category, stored_at, data FROM cache_entries ORDER BY stored_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var key, category, storedAt, data string
		if err := rows.Scan(&key, &category, &storedAt, &data); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}

		cat, err := ParseCategory(category)
		if err != nil {
			return nil, err
		}
		at, err := parseTime(storedAt)
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Key:      key,
			Category: cat,
			StoredAt: at,
			Data:     []byte(data),
		})
	}

	return records, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}
