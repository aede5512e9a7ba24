package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClientFileConfig is the client section of the config file.
type ClientFileConfig struct {
	UserAgent          string `yaml:"user_agent"`
	Referrer           string `yaml:"referrer"`
	Timeout            string `yaml:"timeout"`
	ListingConcurrency int    `yaml:"listing_concurrency"`
	CloudflareBypass   bool   `yaml:"cloudflare_bypass"`
}

// CacheFileConfig is the cache section of the config file. Unset toggles
// default to enabled.
type CacheFileConfig struct {
	Search   *bool  `yaml:"search"`
	Rankings *bool  `yaml:"rankings"`
	Detail   *bool  `yaml:"detail"`
	Size     int    `yaml:"size"`
	TTL      string `yaml:"ttl"`
	Storage  struct {
		Type string `yaml:"type"`
		DSN  string `yaml:"dsn"`
	} `yaml:"storage"`
}

// FileConfig represents the structure of ~/.scribble/config.yaml.
type FileConfig struct {
	Client ClientFileConfig `yaml:"client"`
	Cache  CacheFileConfig  `yaml:"cache"`
}

// LoadConfigFile loads configuration from ~/.scribble/config.yaml. Returns nil
// if the file doesn't exist (not an error). Returns error if the file exists
// but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return LoadConfigFileFrom(filepath.Join(homeDir, ".scribble", "config.yaml"))
}

// LoadConfigFileFrom loads configuration from an explicit path, with the same
// missing-file behavior as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
