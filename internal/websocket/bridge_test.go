// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/docstore"
	"github.com/tomtom215/catalogus/internal/models"
)

func TestSnapshotType(t *testing.T) {
	if got := SnapshotType(models.KindSoftware); got != "software_snapshot" {
		t.Errorf("SnapshotType = %q, want software_snapshot", got)
	}
	if got := SnapshotType(models.KindClassTopics); got != "class_topics_snapshot" {
		t.Errorf("SnapshotType = %q, want class_topics_snapshot", got)
	}
}

func TestSnapshotBridgeRelaysChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ms := docstore.NewMemoryStore()
	t.Cleanup(func() { _ = ms.Close() })
	if err := docstore.Seed(ctx, ms); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store, err := catalog.New(ctx, ms)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(store.Close)
	go func() { _ = store.Serve(ctx) }()

	h, _ := startHub(t)
	bridge := NewSnapshotBridge(store, h)
	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		_ = bridge.Serve(ctx)
	}()

	c := newTestClient(h)
	register(t, h, c)

	if _, err := store.RateSoftware(ctx, "1", 5); err != nil {
		t.Fatalf("RateSoftware: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-c.send:
			if msg.Type != "software_snapshot" {
				continue
			}
			items, ok := msg.Data.([]models.SoftwareEntry)
			if !ok {
				t.Fatalf("unexpected snapshot payload type %T", msg.Data)
			}
			for _, e := range items {
				if e.ID == "1" && e.RatingCount == 121 {
					cancel()
					select {
					case <-bridgeDone:
					case <-time.After(2 * time.Second):
						t.Fatal("bridge did not stop on cancel")
					}
					return
				}
			}
		case <-deadline:
			t.Fatal("no software snapshot relayed")
		}
	}
}
