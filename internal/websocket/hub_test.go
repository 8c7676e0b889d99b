// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package websocket

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/catalogus/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// newTestClient builds a client without a network connection; tests read its
// send channel directly instead of running the pumps.
func newTestClient(h *Hub) *Client {
	return NewClient(h, nil)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop")
		}
	})
	return h, cancel
}

func register(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Register <- c

	// The welcome message confirms registration completed.
	select {
	case msg := <-c.send:
		if msg.Type != MessageTypeWelcome {
			t.Fatalf("first message type = %s, want welcome", msg.Type)
		}
		data, ok := msg.Data.(WelcomeData)
		if !ok || data.ClientID != c.ID() {
			t.Fatalf("unexpected welcome payload: %+v", msg.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no welcome message after register")
	}
}

func TestHubBroadcast(t *testing.T) {
	h, _ := startHub(t)

	c1 := newTestClient(h)
	c2 := newTestClient(h)
	register(t, h, c1)
	register(t, h, c2)

	h.BroadcastJSON("software_snapshot", []string{"a"})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if msg.Type != "software_snapshot" {
				t.Errorf("message type = %s, want software_snapshot", msg.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHubUnregister(t *testing.T) {
	h, _ := startHub(t)

	c := newTestClient(h)
	register(t, h, c)
	if h.GetClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", h.GetClientCount())
	}

	h.Unregister <- c
	deadline := time.Now().Add(2 * time.Second)
	for h.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The hub closed the send channel.
	if _, ok := <-c.send; ok {
		t.Error("send channel not closed after unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h, _ := startHub(t)

	slow := newTestClient(h)
	register(t, h, slow)

	// Fill the client's buffer without draining it.
	for i := 0; i < cap(slow.send)+8; i++ {
		h.BroadcastJSON("software_snapshot", i)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSendTo(t *testing.T) {
	h, _ := startHub(t)

	c1 := newTestClient(h)
	c2 := newTestClient(h)
	register(t, h, c1)
	register(t, h, c2)

	if !h.SendTo(c1.ID(), MessageTypeSpeech, "hola") {
		t.Fatal("SendTo reported client not found")
	}

	select {
	case msg := <-c1.send:
		if msg.Type != MessageTypeSpeech || msg.Data != "hola" {
			t.Errorf("unexpected message: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("targeted client did not receive message")
	}

	select {
	case msg := <-c2.send:
		t.Errorf("other client received targeted message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}

	if h.SendTo(99999, MessageTypeSpeech, "x") {
		t.Error("SendTo to unknown client reported success")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h, cancel := startHub(t)

	c := newTestClient(h)
	register(t, h, c)

	cancel()
	select {
	case _, ok := <-c.send:
		if ok {
			// Drain until closed.
			for range c.send {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client channel not closed on shutdown")
	}
}
