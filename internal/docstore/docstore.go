// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package docstore abstracts the backing document store for the catalog.
//
// Three drivers are provided: SurrealDB (networked, change notifications via
// live queries), Badger (embedded, change notifications fanned out locally)
// and an in-memory store for tests and zero-setup deployments.
//
// The reactive catalog store treats the document store as the single source
// of truth: a mutation only becomes visible in catalog snapshots once the
// store's change subscription delivers it back.
package docstore

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/catalogus/internal/models"
)

// Action describes a change observed on the document store.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ChangeEvent is a single authoritative change delivered on the subscription
// channel. Data holds the full document as JSON; it is nil for deletes.
type ChangeEvent struct {
	Collection models.Kind
	Action     Action
	ID         string
	Data       []byte
}

var (
	// ErrNotFound is returned when the document does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("docstore: store closed")
)

// Store is the persistence interface the catalog store builds on.
//
// Documents are identified by (collection, id) and stored as JSON. Subscribe
// returns a channel of authoritative changes across all collections; every
// successful Create, Update and Delete is eventually delivered on it, whether
// the mutation originated in this process or elsewhere.
type Store interface {
	// Create stores a new document. doc must marshal to a JSON object.
	Create(ctx context.Context, collection models.Kind, id string, doc any) error

	// Update replaces an existing document.
	Update(ctx context.Context, collection models.Kind, id string, doc any) error

	// Delete removes a document. Deleting a missing document returns ErrNotFound.
	Delete(ctx context.Context, collection models.Kind, id string) error

	// List returns all documents of a collection as raw JSON, in unspecified
	// order. Callers sort according to the collection's declared order.
	List(ctx context.Context, collection models.Kind) ([][]byte, error)

	// Subscribe returns the change channel. The channel is closed when the
	// store shuts down or ctx is canceled.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)

	// Close releases resources and closes all subscription channels.
	Close() error
}

// broadcaster fans change events out to local subscribers. The embedded
// drivers (Badger, memory) have no external notification mechanism, so they
// publish their own committed changes through one of these.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[chan ChangeEvent]struct{}
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan ChangeEvent]struct{})}
}

// subscribe registers a new channel, removed when ctx is canceled.
func (b *broadcaster) subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	// Buffered so a burst of writes does not block the committing goroutine
	// while a subscriber catches up.
	ch := make(chan ChangeEvent, 256)
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()

	return ch, nil
}

// publish delivers ev to all subscribers. A subscriber whose buffer is full
// has stalled and already missed authoritative state; its channel is closed
// so the supervised consumer restarts and relists, instead of blocking the
// committing goroutine.
func (b *broadcaster) publish(ev ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// closeAll closes every subscriber channel and marks the broadcaster closed.
func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
