// Package cache memoizes extraction results by request identity. Entries are
// grouped in categories that can be switched off at runtime; a disabled
// category hides its entries without deleting them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Category groups cache entries by the kind of page they came from.
type Category int

const (
	Search Category = iota
	Rankings
	Detail
	numCategories
)

// Categories lists every category.
var Categories = []Category{Search, Rankings, Detail}

func (c Category) String() string {
	switch c {
	case Search:
		return "search"
	case Rankings:
		return "rankings"
	case Detail:
		return "detail"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown cache category %q", s)
}

// Entry is one cached result.
type Entry struct {
	Key      string
	Value    any
	Category Category
	StoredAt time.Time
}

// Config bounds the cache. Zero values mean no size limit and no expiry.
type Config struct {
	Size int
	TTL  time.Duration
}

// Cache is safe for concurrent use.
type Cache struct {
	entries   *expirable.LRU[string, Entry]
	enabled   [numCategories]atomic.Bool
	config    Config
	persister Persister
	logger    *slog.Logger
	// Serializes writes, so a decoded entry never replaces a newer one
	writeMu sync.Mutex
	now       func() time.Time
}

// New creates a cache with every category enabled. A nil config means
// unbounded.
func New(config *Config) *Cache {
	if config == nil {
		config = &Config{}
	}

	c := &Cache{
		config: *config,
		logger: slog.Default(),
		now:    time.Now,
	}
	c.entries = expirable.NewLRU[string, Entry](config.Size, c.onEvict, config.TTL)
	for i := range c.enabled {
		c.enabled[i].Store(true)
	}
	return c
}

// SetLogger replaces the logger used for persistence failures.
func (c *Cache) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetEnabled switches a category on or off. It takes effect on the next
// lookup.
func (c *Cache) SetEnabled(category Category, on bool) {
	if category < 0 || category >= numCategories {
		return
	}
	c.enabled[category].Store(on)
}

// Enabled reports whether a category is on.
func (c *Cache) Enabled(category Category) bool {
	if category < 0 || category >= numCategories {
		return false
	}
	return c.enabled[category].Load()
}

// Lookup returns the entry stored under key. Entries of a disabled category
// are reported as misses. An entry older than the TTL, counted from
// StoredAt, is removed and reported as a miss.
func (c *Cache) Lookup(key string) (Entry, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	if c.expired(e) {
		c.entries.Remove(key)
		return Entry{}, false
	}
	if !c.Enabled(e.Category) {
		return Entry{}, false
	}
	return e, true
}

func (c *Cache) expired(e Entry) bool {
	return c.config.TTL > 0 && c.now().Sub(e.StoredAt) > c.config.TTL
}

// Store saves value under key, replacing any previous entry.
func (c *Cache) Store(key string, value any, category Category) {
	e := Entry{Key: key, Value: value, Category: category, StoredAt: c.now()}
	c.writeMu.Lock()
	c.entries.Add(key, e)
	c.writeMu.Unlock()

	if c.persister == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache: failed to encode entry", "key", key, "error", err)
		return
	}
	if err := c.persister.Save(context.Background(), Record{
		Key:      key,
		Category: category,
		StoredAt: e.StoredAt,
		Data:     data,
	}); err != nil {
		c.logger.Warn("cache: failed to persist entry", "key", key, "error", err)
	}
}

// Len returns the number of entries held in memory, disabled categories
// included.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Clear drops every entry, persisted copies included.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Get is a typed Lookup. Entries loaded from a Persister are decoded into T
// on first use.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	e, ok := c.Lookup(key)
	if !ok {
		return zero, false
	}

	switch v := e.Value.(type) {
	case T:
		return v, true
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(v, &out); err != nil {
			c.logger.Warn("cache: failed to decode persisted entry", "key", key, "error", err)
			return zero, false
		}
		c.replaceDecoded(e, out)
		return out, true
	default:
		return zero, false
	}
}

// replaceDecoded swaps the raw value of e for its decoded form, unless the
// entry was replaced or removed since it was read.
func (c *Cache) replaceDecoded(e Entry, decoded any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cur, ok := c.entries.Peek(e.Key)
	if !ok || !cur.StoredAt.Equal(e.StoredAt) {
		return
	}
	if _, raw := cur.Value.(json.RawMessage); !raw {
		return
	}
	cur.Value = decoded
	c.entries.Add(e.Key, cur)
}

func (c *Cache) onEvict(key string, _ Entry) {
	if c.persister == nil {
		return
	}
	if err := c.persister.Delete(context.Background(), key); err != nil {
		c.logger.Warn("cache: failed to delete persisted entry", "key", key, "error", err)
	}
}
