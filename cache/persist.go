package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record is the persisted form of an Entry; Data holds the value as JSON.
type Record struct {
	Key      string          `json:"key"`
	Category Category        `json:"category"`
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// Persister keeps cache entries beyond the life of the process.
type Persister interface {
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, key string) error
	LoadAll(ctx context.Context) ([]Record, error)
	Close() error
}

// Load warms the cache from p and keeps writing through to it afterwards.
// Records older than the configured TTL are dropped from p instead of being
// loaded. It returns the number of entries loaded. Call it before the cache
// is shared between goroutines.
func (c *Cache) Load(ctx context.Context, p Persister) (int, error) {
	records, err := p.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load cache entries: %w", err)
	}

	loaded := 0
	now := c.now()
	for _, rec := range records {
		if c.config.TTL > 0 && now.Sub(rec.StoredAt) > c.config.TTL {
			if err := p.Delete(ctx, rec.Key); err != nil {
				c.logger.Warn("cache: failed to delete expired entry", "key", rec.Key, "error", err)
			}
			continue
		}
		c.entries.Add(rec.Key, Entry{
			Key:      rec.Key,
			Value:    rec.Data,
			Category: rec.Category,
			StoredAt: rec.StoredAt,
		})
		loaded++
	}

	c.persister = p
	return loaded, nil
}
