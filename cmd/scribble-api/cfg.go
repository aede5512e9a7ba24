package main

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// AppConfig holds the server configuration, read from command-line flags
// with environment variable fallbacks. Client settings (user agent, cache
// storage, ...) come from ~/.scribble/config.yaml and SCRIBBLE_* variables.
type AppConfig struct {
	Host     string `long:"host" env:"SCRIBBLE_API_HOST" default:"localhost" description:"Address to listen on"`
	Port     string `long:"port" env:"SCRIBBLE_API_PORT" default:"8080" description:"HTTP server port"`
	ConfigDB string `long:"config-db" env:"SCRIBBLE_CONFIG_DSN" default:"scribble-config.db" description:"SQLite database holding settings changed through the API"`
	Debug    bool   `long:"debug" env:"SCRIBBLE_DEBUG" description:"Enable debug logging"`
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// loadConfig parses args. It returns nil, nil when help was requested.
func loadConfig(args []string) (*AppConfig, error) {
	var appConfig AppConfig

	parser := flags.NewParser(&appConfig, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &appConfig, nil
}
