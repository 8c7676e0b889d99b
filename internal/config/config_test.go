// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig() does not validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "server.environment",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: "database.driver",
		},
		{
			name: "surrealdb requires url",
			mutate: func(c *Config) {
				c.Database.Driver = "surrealdb"
				c.Database.Surreal.URL = ""
			},
			wantErr: "database.surrealdb.url",
		},
		{
			name: "surrealdb rejects http scheme",
			mutate: func(c *Config) {
				c.Database.Driver = "surrealdb"
				c.Database.Surreal.URL = "http://localhost:8000"
			},
			wantErr: "ws:// or wss://",
		},
		{
			name: "surrealdb websocket url accepted",
			mutate: func(c *Config) {
				c.Database.Driver = "surrealdb"
				c.Database.Surreal.URL = "ws://localhost:8000/rpc"
			},
		},
		{
			name: "badger requires path on disk",
			mutate: func(c *Config) {
				c.Database.Driver = "badger"
				c.Database.Badger.Path = ""
				c.Database.Badger.InMemory = false
			},
			wantErr: "database.badger.path",
		},
		{
			name: "badger in-memory needs no path",
			mutate: func(c *Config) {
				c.Database.Driver = "badger"
				c.Database.Badger.Path = ""
				c.Database.Badger.InMemory = true
			},
		},
		{
			name: "max page size below default",
			mutate: func(c *Config) {
				c.API.DefaultPageSize = 50
				c.API.MaxPageSize = 10
			},
			wantErr: "api.max_page_size",
		},
		{
			name: "rate limit window zero",
			mutate: func(c *Config) {
				c.Security.RateLimitWindow = 0
			},
			wantErr: "security.rate_limit_window",
		},
		{
			name: "rate limit ignored when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
				c.Security.RateLimitWindow = 0
			},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name: "speech timeout required when enabled",
			mutate: func(c *Config) {
				c.Speech.Enabled = true
				c.Speech.SessionTimeout = 0
			},
			wantErr: "speech.session_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DB_DRIVER", "badger")
	t.Setenv("BADGER_IN_MEMORY", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SPEECH_SESSION_TIMEOUT", "90s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "badger" {
		t.Errorf("Database.Driver = %q, want badger", cfg.Database.Driver)
	}
	if !cfg.Database.Badger.InMemory {
		t.Error("Badger.InMemory = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Speech.SessionTimeout != 90*time.Second {
		t.Errorf("Speech.SessionTimeout = %s, want 90s", cfg.Speech.SessionTimeout)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	data := []byte("server:\n  port: 8111\ndatabase:\n  driver: memory\nlogging:\n  format: console\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error: %v", err)
	}
	if cfg.Server.Port != 8111 {
		t.Errorf("Server.Port = %d, want 8111 from file", cfg.Server.Port)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console from file", cfg.Logging.Format)
	}
	// Untouched values keep defaults.
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("API.DefaultPageSize = %d, want default 20", cfg.API.DefaultPageSize)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DB_DRIVER", "database.driver"},
		{"SURREALDB_URL", "database.surrealdb.url"},
		{"BADGER_PATH", "database.badger.path"},
		{"LOG_FORMAT", "logging.format"},
		{"SPEECH_LANGUAGE", "speech.language"},
		{"PATH", ""},   // unmapped vars are skipped
		{"RANDOM", ""}, // unmapped vars are skipped
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 8420}
	if got := sc.Addr(); got != "127.0.0.1:8420" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8420", got)
	}
}
