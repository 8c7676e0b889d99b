// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package docstore abstracts the document database behind the catalog.

The Store interface covers the four operations the reactive store needs --
Create, Update, Delete and List over named collections -- plus Subscribe,
which delivers a ChangeEvent for every committed write. The subscription is
the authoritative change feed: the catalog store only updates its snapshots
when an event arrives, never directly after its own writes.

# Drivers

Three drivers implement Store, selected by database.driver in the
configuration:

  - surrealdb: connects to a SurrealDB server over its WebSocket endpoint.
    Change events come from Live queries, so writes performed by other
    processes (or surreal sql sessions) flow into this process's snapshots
    too. Every call runs through a sony/gobreaker circuit breaker; while
    the breaker is open, operations fail fast with ErrUnavailable.

  - badger: embedded BadgerDB for standalone deployments with no external
    database. Badger has no watch API, so the driver synthesizes change
    events locally after each committed transaction. Value-log garbage
    collection runs on a background ticker.

  - memory: map-backed driver with the same local event fan-out. Used by
    the test suites and for throwaway instances.

# Seeding

Seed populates the initial catalog (three software entries, three
classifications, two forum posts, three class topics) into any collection
that is empty, and leaves non-empty collections untouched. The factory runs
it when database.seed_data is true.

# Event Delivery

Subscribers receive events on a buffered channel (256 deep). A subscriber
that falls behind loses its subscription rather than blocking writers; the
catalog store treats a closed event channel as a pump failure and lets the
supervisor restart it.
*/
package docstore
