// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package supervisor builds the suture supervision tree for Catalogus.

The tree has three child supervisors under the root:

  - data-layer: the catalog store's change pump
  - messaging-layer: the WebSocket hub and the snapshot bridge
  - api-layer: the HTTP server

A crash in one layer restarts only that layer's services; the API keeps
serving REST snapshots while the messaging layer recovers, and vice versa.
Supervisor events are logged through sutureslog into the application's
zerolog sink.

Services implement suture.Service (Serve(ctx) error plus fmt.Stringer for
log identification). HTTPServerService adapts *http.Server to that
contract with context-driven graceful shutdown.
*/
package supervisor
