// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package websocket pushes live catalog state to connected browsers.

This package implements WebSocket support for broadcasting collection
snapshots and speech session events to connected frontend clients. It uses
the gorilla/websocket library with a hub-client architecture for efficient
message broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - SnapshotBridge: Subscribes to the catalog store and broadcasts one
    "<collection>_snapshot" message per change, carrying the full replacement
    collection

Speech session events are delivered to the owning client only, addressed by
the client id announced in the welcome message. Slow clients never block a
broadcast: a client whose send buffer is full is disconnected and counted in
the websocket_clients_dropped_total metric.

Both the Hub (RunWithContext) and the SnapshotBridge (Serve) are run under
suture supervision and stop cleanly on context cancellation.
*/
package websocket
