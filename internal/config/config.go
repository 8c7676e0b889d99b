// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package config provides layered application configuration.
//
// Configuration is loaded with Koanf v2 from three sources in increasing
// priority: built-in defaults, an optional YAML file, and environment
// variables. See LoadWithKoanf for details.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Catalogus server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Speech   SpeechConfig   `koanf:"speech"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig selects and configures the backing document store.
// Driver is one of "surrealdb", "badger" or "memory".
type DatabaseConfig struct {
	Driver   string          `koanf:"driver"`
	SeedData bool            `koanf:"seed_data"`
	Surreal  SurrealDBConfig `koanf:"surrealdb"`
	Badger   BadgerConfig    `koanf:"badger"`
}

// SurrealDBConfig configures the SurrealDB connection. Live queries over the
// WebSocket endpoint deliver the change notifications the reactive store
// depends on, so URL must use the ws or wss scheme.
type SurrealDBConfig struct {
	URL       string        `koanf:"url"`
	Namespace string        `koanf:"namespace"`
	Database  string        `koanf:"database"`
	Username  string        `koanf:"username"`
	Password  string        `koanf:"password"`
	Timeout   time.Duration `koanf:"timeout"`

	// Circuit breaker settings for store operations.
	BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// BadgerConfig configures the embedded Badger store.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// APIConfig controls API behavior shared by all handlers.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// SpeechConfig controls the speech session subsystem.
type SpeechConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Language       string        `koanf:"language"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// knownDrivers lists the accepted database.driver values.
var knownDrivers = []string{"surrealdb", "badger", "memory"}

// Validate checks the configuration for inconsistencies that would surface
// later as runtime failures. It returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be development, production or test, got %q", c.Server.Environment)
	}

	driver := strings.ToLower(c.Database.Driver)
	valid := false
	for _, d := range knownDrivers {
		if driver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("database.driver must be one of %s, got %q",
			strings.Join(knownDrivers, ", "), c.Database.Driver)
	}

	if driver == "surrealdb" {
		u := c.Database.Surreal.URL
		if u == "" {
			return fmt.Errorf("database.surrealdb.url is required when driver is surrealdb")
		}
		if !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
			return fmt.Errorf("database.surrealdb.url must use ws:// or wss:// scheme, got %q", u)
		}
		if c.Database.Surreal.Namespace == "" || c.Database.Surreal.Database == "" {
			return fmt.Errorf("database.surrealdb.namespace and database.surrealdb.database are required")
		}
	}

	if driver == "badger" && !c.Database.Badger.InMemory && c.Database.Badger.Path == "" {
		return fmt.Errorf("database.badger.path is required when driver is badger and in_memory is false")
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Speech.Enabled && c.Speech.SessionTimeout <= 0 {
		return fmt.Errorf("speech.session_timeout must be positive when speech is enabled, got %s", c.Speech.SessionTimeout)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the host:port string for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
