// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
	"github.com/tomtom215/catalogus/internal/models"
)

// docKey builds the Badger key for a document: "<collection>:<id>".
func docKey(collection models.Kind, id string) []byte {
	return []byte(string(collection) + ":" + id)
}

// BadgerStore is a durable embedded Store backed by BadgerDB. Documents
// survive restarts; change events are fanned out locally after each committed
// transaction.
type BadgerStore struct {
	db *badger.DB
	bc *broadcaster

	gcDone chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// gcInterval is how often value-log garbage collection runs. Badger never
// reclaims value-log space on its own.
const gcInterval = 5 * time.Minute

// NewBadgerStore opens (or creates) the Badger database at the configured
// path. With InMemory set, nothing touches disk.
func NewBadgerStore(cfg config.BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", cfg.Path, err)
	}

	log := logging.WithComponent("docstore")
	log.Info().
		Str("driver", "badger").
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Document store opened")

	s := &BadgerStore{
		db:     db,
		bc:     newBroadcaster(),
		gcDone: make(chan struct{}),
	}
	if !cfg.InMemory {
		go s.runGC()
	}
	return s, nil
}

func (s *BadgerStore) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.gcDone:
			return
		case <-ticker.C:
			// RunValueLogGC rewrites at most one file per call; loop until
			// there is nothing left worth rewriting.
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// Create stores a new document and publishes a CREATE event.
func (s *BadgerStore) Create(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.put(ctx, collection, id, doc, ActionCreate)
	metrics.RecordDocstoreOperation("badger", "create", err, start)
	return err
}

// Update replaces an existing document and publishes an UPDATE event.
func (s *BadgerStore) Update(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.put(ctx, collection, id, doc, ActionUpdate)
	metrics.RecordDocstoreOperation("badger", "update", err, start)
	return err
}

func (s *BadgerStore) put(ctx context.Context, collection models.Kind, id string, doc any, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s/%s: %w", collection, id, err)
	}

	key := docKey(collection, id)
	err = s.db.Update(func(txn *badger.Txn) error {
		if action == ActionUpdate {
			if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			} else if err != nil {
				return fmt.Errorf("get document: %w", err)
			}
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	s.bc.publish(ChangeEvent{
		Collection: collection,
		Action:     action,
		ID:         id,
		Data:       data,
	})
	return nil
}

// Delete removes a document and publishes a DELETE event.
func (s *BadgerStore) Delete(ctx context.Context, collection models.Kind, id string) error {
	start := time.Now()
	err := s.deleteDoc(ctx, collection, id)
	metrics.RecordDocstoreOperation("badger", "delete", err, start)
	return err
}

func (s *BadgerStore) deleteDoc(ctx context.Context, collection models.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := docKey(collection, id)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	s.bc.publish(ChangeEvent{
		Collection: collection,
		Action:     ActionDelete,
		ID:         id,
	})
	return nil
}

// List returns all documents of a collection by prefix scan.
func (s *BadgerStore) List(ctx context.Context, collection models.Kind) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(string(collection) + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				cp := make([]byte, len(val))
				copy(cp, val)
				out = append(out, cp)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// Subscribe registers a change listener.
func (s *BadgerStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.bc.subscribe(ctx)
}

// Close closes all subscription channels and the underlying database.
func (s *BadgerStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.gcDone)
		s.bc.closeAll()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
