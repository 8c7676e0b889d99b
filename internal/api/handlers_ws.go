// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/catalogus/internal/logging"
	ws "github.com/tomtom215/catalogus/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware on the rest of
	// the API; the upgrade request carries no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket handles GET /api/v1/ws and upgrades the connection. The client
// receives a welcome message with its id, then one "<collection>_snapshot"
// message per catalog change and targeted speech session messages.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
