// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package websocket

import (
	"context"
	"sync"

	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/models"
)

// SnapshotType returns the message type carrying a collection snapshot.
func SnapshotType(kind models.Kind) string {
	return string(kind) + "_snapshot"
}

// SnapshotBridge forwards catalog snapshots to the hub: every subscriber of
// the websocket endpoint sees each collection replaced wholesale on change,
// starting with the current state on connect (delivered by the store's
// subscription semantics at bridge start; later clients get the next change
// or fetch the REST snapshot first).
type SnapshotBridge struct {
	store *catalog.Store
	hub   *Hub
}

// NewSnapshotBridge builds a bridge between the store and the hub.
func NewSnapshotBridge(store *catalog.Store, hub *Hub) *SnapshotBridge {
	return &SnapshotBridge{store: store, hub: hub}
}

// Serve subscribes to every collection and relays snapshots until ctx is
// canceled. It implements suture.Service.
func (b *SnapshotBridge) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	cancels := make([]func(), 0, len(models.Kinds))

	for _, kind := range models.Kinds {
		ch, cancel, err := b.store.Subscribe(kind)
		if err != nil {
			for _, c := range cancels {
				c()
			}
			return err
		}
		cancels = append(cancels, cancel)

		wg.Add(1)
		go func(kind models.Kind, ch <-chan catalog.Snapshot) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case snap, ok := <-ch:
					if !ok {
						return
					}
					b.hub.BroadcastJSON(SnapshotType(kind), snap.Items)
				}
			}
		}(kind, ch)
	}

	logging.Info().Msg("snapshot bridge started")
	<-ctx.Done()
	for _, c := range cancels {
		c()
	}
	wg.Wait()
	return ctx.Err()
}

// String identifies the service in supervisor logs.
func (b *SnapshotBridge) String() string {
	return "websocket-snapshot-bridge"
}
