// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// collectEvent waits for one change event or fails the test.
func collectEvent(t *testing.T, ch <-chan ChangeEvent) ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("change channel closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}
	return ChangeEvent{}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	events, err := store.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	entry := models.SoftwareEntry{ID: "s1", Name: "ChatGPT", Rating: 4.5, RatingCount: 120}
	if err := store.Create(ctx, models.KindSoftware, "s1", entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ev := collectEvent(t, events)
	if ev.Action != ActionCreate || ev.Collection != models.KindSoftware || ev.ID != "s1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	var got models.SoftwareEntry
	if err := json.Unmarshal(ev.Data, &got); err != nil {
		t.Fatalf("unmarshal event data: %v", err)
	}
	if got.Name != "ChatGPT" || got.RatingCount != 120 {
		t.Errorf("event payload = %+v, want created entry", got)
	}

	entry.Rating = 4.6
	entry.RatingCount = 121
	if err := store.Update(ctx, models.KindSoftware, "s1", entry); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ev = collectEvent(t, events)
	if ev.Action != ActionUpdate {
		t.Fatalf("expected UPDATE, got %s", ev.Action)
	}

	docs, err := store.List(ctx, models.KindSoftware)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("List returned %d docs, want 1", len(docs))
	}

	if err := store.Delete(ctx, models.KindSoftware, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ev = collectEvent(t, events)
	if ev.Action != ActionDelete || ev.Data != nil {
		t.Fatalf("unexpected delete event %+v", ev)
	}

	docs, err = store.List(ctx, models.KindSoftware)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("List returned %d docs after delete, want 0", len(docs))
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	err := store.Update(ctx, models.KindSoftware, "missing", models.SoftwareEntry{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}

	err = store.Delete(ctx, models.KindClassTopics, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreClosedOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	events, err := store.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Subscription channel closes on shutdown.
	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected closed channel, got event")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Close")
	}

	if err := store.Create(ctx, models.KindSoftware, "x", models.SoftwareEntry{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Create after Close = %v, want ErrClosed", err)
	}
	if _, err := store.Subscribe(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe after Close = %v, want ErrClosed", err)
	}

	// Closing twice is fine.
	if err := store.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestMemoryStoreSubscriberCancel(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	subCtx, cancel := context.WithCancel(context.Background())
	events, err := store.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	cancel()

	// The channel closes shortly after cancellation.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancel")
		}
	}
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	if err := Seed(ctx, store); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	counts := map[models.Kind]int{
		models.KindSoftware:        3,
		models.KindClassifications: 3,
		models.KindForumPosts:      2,
		models.KindClassTopics:     3,
	}
	for kind, want := range counts {
		docs, err := store.List(ctx, kind)
		if err != nil {
			t.Fatalf("List %s: %v", kind, err)
		}
		if len(docs) != want {
			t.Errorf("%s has %d docs after seed, want %d", kind, len(docs), want)
		}
	}

	// Seeding again must not duplicate anything.
	if err := Seed(ctx, store); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	docs, err := store.List(ctx, models.KindSoftware)
	if err != nil {
		t.Fatalf("List after reseed: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("software has %d docs after reseed, want 3", len(docs))
	}
}
