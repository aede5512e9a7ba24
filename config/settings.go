package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pevans/scribble"
	"github.com/pevans/scribble/cache"
)

// Settings is the effective configuration: environment over config file over
// defaults.
type Settings struct {
	UserAgent          string
	Referrer           string
	Timeout            time.Duration
	ListingConcurrency int
	CloudflareBypass   bool

	CacheEnabled map[cache.Category]bool
	CacheSize    int
	CacheTTL     time.Duration
	// "memory", "sqlite" or "file"
	CacheType string
	CacheDSN  string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	client := scribble.DefaultClientConfig()
	enabled := make(map[cache.Category]bool, len(cache.Categories))
	for _, c := range cache.Categories {
		enabled[c] = true
	}
	return &Settings{
		UserAgent:          client.UserAgent,
		Referrer:           client.Referrer,
		Timeout:            client.Timeout,
		ListingConcurrency: client.ListingConcurrency,
		CacheEnabled:       enabled,
		CacheType:          "memory",
	}
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Resolve merges file (which may be nil) and the SCRIBBLE_* environment
// variables over the defaults.
func Resolve(file *FileConfig) (*Settings, error) {
	s := DefaultSettings()

	if file != nil {
		if file.Client.UserAgent != "" {
			s.UserAgent = file.Client.UserAgent
		}
		if file.Client.Referrer != "" {
			s.Referrer = file.Client.Referrer
		}
		if file.Client.Timeout != "" {
			d, err := time.ParseDuration(file.Client.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid client.timeout: %w", err)
			}
			s.Timeout = d
		}
		if file.Client.ListingConcurrency > 0 {
			s.ListingConcurrency = file.Client.ListingConcurrency
		}
		s.CloudflareBypass = file.Client.CloudflareBypass

		for c, v := range map[cache.Category]*bool{
			cache.Search:   file.Cache.Search,
			cache.Rankings: file.Cache.Rankings,
			cache.Detail:   file.Cache.Detail,
		} {
			if v != nil {
				s.CacheEnabled[c] = *v
			}
		}
		s.CacheSize = file.Cache.Size
		if file.Cache.TTL != "" {
			d, err := time.ParseDuration(file.Cache.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid cache.ttl: %w", err)
			}
			s.CacheTTL = d
		}
		if file.Cache.Storage.Type != "" {
			s.CacheType = file.Cache.Storage.Type
		}
		s.CacheDSN = file.Cache.Storage.DSN
	}

	s.UserAgent = getEnv("SCRIBBLE_USER_AGENT", s.UserAgent)
	s.Referrer = getEnv("SCRIBBLE_REFERRER", s.Referrer)
	if v := os.Getenv("SCRIBBLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRIBBLE_TIMEOUT: %w", err)
		}
		s.Timeout = d
	}
	if v := os.Getenv("SCRIBBLE_CLOUDFLARE_BYPASS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRIBBLE_CLOUDFLARE_BYPASS: %w", err)
		}
		s.CloudflareBypass = b
	}
	s.CacheType = getEnv("SCRIBBLE_CACHE_TYPE", s.CacheType)
	s.CacheDSN = getEnv("SCRIBBLE_CACHE_DSN", s.CacheDSN)

	return s, nil
}

// Load reads ~/.scribble/config.yaml and resolves it.
func Load() (*Settings, error) {
	file, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	return Resolve(file)
}

// ClientConfig converts the settings for scribble.NewClient.
func (s *Settings) ClientConfig(logger *slog.Logger) *scribble.ClientConfig {
	config := scribble.DefaultClientConfig()
	config.UserAgent = s.UserAgent
	config.Referrer = s.Referrer
	config.Timeout = s.Timeout
	config.ListingConcurrency = s.ListingConcurrency
	config.Logger = logger
	return config
}

// OpenCache builds the cache, warming it from persistent storage when one is
// configured. The returned close function releases the storage.
func (s *Settings) OpenCache(ctx context.Context, logger *slog.Logger) (*cache.Cache, func() error, error) {
	c := cache.New(&cache.Config{Size: s.CacheSize, TTL: s.CacheTTL})
	if logger != nil {
		c.SetLogger(logger)
	}
	for category, on := range s.CacheEnabled {
		c.SetEnabled(category, on)
	}

	var (
		p   cache.Persister
		err error
	)
	switch s.CacheType {
	case "", "memory":
		return c, func() error { return nil }, nil
	case "sqlite":
		p, err = cache.NewSQLiteStore(valueOr(s.CacheDSN, "scribble-cache.db"))
	case "file":
		p, err = cache.NewFileStore(valueOr(s.CacheDSN, ".scribble-cache"))
	default:
		return nil, nil, fmt.Errorf("unknown cache storage type %q", s.CacheType)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache storage: %w", err)
	}

	if _, err := c.Load(ctx, p); err != nil {
		p.Close()
		return nil, nil, err
	}
	return c, p.Close, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
