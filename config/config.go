package config

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/scribble"
	"github.com/pevans/scribble/cache"
)

const (
	keyUserAgent   = "user_agent"
	keyReferrer    = "referrer"
	keyCachePrefix = "cache."
)

// ConfigStore persists settings changed at runtime, so a restarted server
// keeps them.
type ConfigStore struct {
	db *sql.DB
}

// Overrides are runtime settings. Empty strings and absent categories mean
// "not overridden".
type Overrides struct {
	UserAgent    string          `json:"user_agent,omitempty"`
	Referrer     string          `json:"referrer,omitempty"`
	CacheEnabled map[string]bool `json:"cache_enabled,omitempty"`
}

// NewConfigStore creates a new config store with the given database path.
func NewConfigStore(dbPath string) (*ConfigStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ConfigStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the config table if it doesn't exist.
func (c *ConfigStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *ConfigStore) Close() error {
	return c.db.Close()
}

// GetOverrides returns every stored override.
func (c *ConfigStore) GetOverrides() (*Overrides, error) {
	rows, err := c.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, fmt.Errorf("failed to query config: %w", err)
	}
	defer rows.Close()

	o := &Overrides{CacheEnabled: map[string]bool{}}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
		switch {
		case key == keyUserAgent:
			o.UserAgent = value
		case key == keyReferrer:
			o.Referrer = value
		case strings.HasPrefix(key, keyCachePrefix):
			o.CacheEnabled[strings.TrimPrefix(key, keyCachePrefix)] = value == "true"
		}
	}

	return o, rows.Err()
}

// UpdateOverrides stores every set field of o, leaving the others untouched.
func (c *ConfigStore) UpdateOverrides(o *Overrides) error {
	toggles := make(map[string]bool, len(o.CacheEnabled))
	for name, on := range o.CacheEnabled {
		category, err := cache.ParseCategory(name)
		if err != nil {
			return err
		}
		toggles[category.String()] = on
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)"
	set := func(key, value string) error {
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return nil
	}

	if o.UserAgent != "" {
		if err := set(keyUserAgent, o.UserAgent); err != nil {
			return err
		}
	}
	if o.Referrer != "" {
		if err := set(keyReferrer, o.Referrer); err != nil {
			return err
		}
	}
	for category, on := range toggles {
		if err := set(keyCachePrefix+category, fmt.Sprintf("%t", on)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Apply pushes the overrides onto a running client.
func (o *Overrides) Apply(client *scribble.Client) {
	if o.UserAgent != "" {
		client.SetUserAgent(o.UserAgent)
	}
	if o.Referrer != "" {
		client.SetReferrer(o.Referrer)
	}
	for name, on := range o.CacheEnabled {
		if category, err := cache.ParseCategory(name); err == nil {
			client.Cache().SetEnabled(category, on)
		}
	}
}
