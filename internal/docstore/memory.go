// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/metrics"
	"github.com/tomtom215/catalogus/internal/models"
)

// MemoryStore is an in-memory Store implementation. It backs zero-setup
// deployments and tests. Changes are fanned out to subscribers after commit,
// giving the same authoritative-echo behavior as the durable drivers.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[models.Kind]map[string][]byte
	bc   *broadcaster

	closedMu sync.Mutex
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	docs := make(map[models.Kind]map[string][]byte, len(models.Kinds))
	for _, k := range models.Kinds {
		docs[k] = make(map[string][]byte)
	}
	return &MemoryStore{
		docs: docs,
		bc:   newBroadcaster(),
	}
}

func (s *MemoryStore) isClosed() bool {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed
}

// Create stores a new document and publishes a CREATE event.
func (s *MemoryStore) Create(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.put(ctx, collection, id, doc, ActionCreate)
	metrics.RecordDocstoreOperation("memory", "create", err, start)
	return err
}

// Update replaces a document and publishes an UPDATE event.
func (s *MemoryStore) Update(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.put(ctx, collection, id, doc, ActionUpdate)
	metrics.RecordDocstoreOperation("memory", "update", err, start)
	return err
}

func (s *MemoryStore) put(ctx context.Context, collection models.Kind, id string, doc any, action Action) error {
	if s.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	if action == ActionUpdate {
		if _, ok := s.docs[collection][id]; !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
	}
	s.docs[collection][id] = data
	s.mu.Unlock()

	s.bc.publish(ChangeEvent{
		Collection: collection,
		Action:     action,
		ID:         id,
		Data:       data,
	})
	return nil
}

// Delete removes a document and publishes a DELETE event.
func (s *MemoryStore) Delete(ctx context.Context, collection models.Kind, id string) error {
	start := time.Now()
	err := s.delete(ctx, collection, id)
	metrics.RecordDocstoreOperation("memory", "delete", err, start)
	return err
}

func (s *MemoryStore) delete(ctx context.Context, collection models.Kind, id string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.docs[collection][id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.docs[collection], id)
	s.mu.Unlock()

	s.bc.publish(ChangeEvent{
		Collection: collection,
		Action:     ActionDelete,
		ID:         id,
	})
	return nil
}

// List returns copies of all documents in the collection.
func (s *MemoryStore) List(ctx context.Context, collection models.Kind) ([][]byte, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]byte, 0, len(s.docs[collection]))
	for _, data := range s.docs[collection] {
		cp := make([]byte, len(data))
		copy(cp, data)
		out = append(out, cp)
	}
	return out, nil
}

// Subscribe registers a change listener.
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	return s.bc.subscribe(ctx)
}

// Close shuts the store down and closes all subscription channels.
func (s *MemoryStore) Close() error {
	s.closedMu.Lock()
	if s.closed {
		s.closedMu.Unlock()
		return nil
	}
	s.closed = true
	s.closedMu.Unlock()

	s.bc.closeAll()
	return nil
}
