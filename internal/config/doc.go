// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package config provides layered configuration for Catalogus.

Configuration is loaded with knadh/koanf in three layers, later layers
overriding earlier ones:

 1. compiled-in defaults
 2. a YAML file (config.yaml / config.yml in the working directory or
    /etc/catalogus, or the path in CATALOGUS_CONFIG)
 3. environment variables prefixed CATALOGUS_ (CATALOGUS_SERVER_PORT maps
    to server.port)

# Sections

  - server: host, port, read/write timeouts, shutdown timeout, environment
  - database: driver selection (surrealdb | badger | memory), seed_data,
    plus per-driver blocks (surrealdb URL/namespace/database/credentials
    and circuit-breaker tuning; badger path/in_memory)
  - api: default_page_size, max_page_size
  - security: cors_origins, rate_limit_reqs, rate_limit_window,
    rate_limit_disabled, trusted_proxies
  - speech: enabled, language, session_timeout
  - logging: level, format (json | console), caller

Validate runs after unmarshal and rejects impossible combinations
(unknown driver, ws-less SurrealDB URL, zero page sizes) before anything
starts. The Config value is immutable afterwards and safe to share.

WatchConfigFile registers a callback for file changes via koanf's file
provider; Catalogus uses it to log that a restart is required rather than
attempting hot reload.
*/
package config
