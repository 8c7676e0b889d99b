// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
)

// Message types for WebSocket communication. Snapshot types are derived per
// collection as "<collection>_snapshot".
const (
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
	MessageTypeWelcome = "welcome"
	MessageTypeSpeech  = "speech"
)

// Message represents a WebSocket message
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WelcomeData is sent once after a client connects. The client id addresses
// targeted messages such as speech session events.
type WelcomeData struct {
	ClientID uint64 `json:"clientId"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	byID       map[uint64]*Client
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byID:       make(map[uint64]*Client),
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// Designed for use with suture supervision: on context cancellation all
// connected clients are closed and ctx.Err() is returned.
//
// DETERMINISM: Uses priority-based selection to ensure predictable behavior
// when multiple channels are ready simultaneously:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Broadcast messages
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (non-blocking)
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
		}

		// Priority 3: Handle broadcast messages or wait for any event
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String identifies the service in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.byID[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")

	// The welcome message tells the client its id for targeted messages.
	client.trySend(Message{Type: MessageTypeWelcome, Data: WelcomeData{ClientID: client.id}})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		delete(h.byID, client.id)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients sends a message to all connected clients in a
// deterministic order. Slow clients are dropped rather than allowed to block
// the broadcast.
//
// DETERMINISM: Sorts clients by their monotonically assigned id so delivery
// order does not depend on map iteration order.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.WithLabelValues(message.Type).Inc()
		default:
			// Channel full or closed, mark for removal
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		delete(h.byID, client.id)
		metrics.WebSocketClientsDropped.Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropped slow websocket client")
	}
	metrics.WebSocketConnections.Set(float64(len(h.clients)))
}

// shutdown gracefully closes all connected clients.
// DETERMINISM: Closes clients in id order for consistent shutdown behavior.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		delete(h.byID, client.id)
	}
	metrics.WebSocketConnections.Set(0)
	logging.Info().Int("clients_closed", len(clients)).Msg("websocket hub stopped")
}

// BroadcastJSON sends a message of the given type to all connected clients.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// SendTo delivers a message to one client by id. It reports whether the
// client was found; a slow client is dropped like in a broadcast.
func (h *Hub) SendTo(clientID uint64, messageType string, data any) bool {
	h.mu.Lock()
	client, ok := h.byID[clientID]
	if !ok {
		h.mu.Unlock()
		return false
	}

	message := Message{Type: messageType, Data: data}
	select {
	case client.send <- message:
		h.mu.Unlock()
		metrics.WebSocketMessagesSent.WithLabelValues(messageType).Inc()
		return true
	default:
		close(client.send)
		delete(h.clients, client)
		delete(h.byID, client.id)
		metrics.WebSocketConnections.Set(float64(len(h.clients)))
		h.mu.Unlock()
		metrics.WebSocketClientsDropped.Inc()
		logging.Warn().Uint64("client_id", clientID).Msg("dropped slow websocket client")
		return false
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
