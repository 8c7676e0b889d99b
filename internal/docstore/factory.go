// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/catalogus/internal/config"
)

// New creates the document store selected by the configuration and seeds it
// when requested.
func New(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	var store Store
	var err error

	switch strings.ToLower(cfg.Driver) {
	case "surrealdb":
		store, err = NewSurrealStore(ctx, cfg.Surreal)
	case "badger":
		store, err = NewBadgerStore(cfg.Badger)
	case "memory":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.SeedData {
		if err := Seed(ctx, store); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}
