// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package catalog implements the reactive store at the heart of Catalogus.

The store holds one sorted, immutable snapshot per collection (software,
classifications, forum posts, class topics) and lets any number of
subscribers observe them. Like an RxJS BehaviorSubject, a new subscriber
immediately receives the current snapshot and then a full replacement slice
on every subsequent change.

# Authoritative Echo

The document store (internal/docstore) is the single source of truth.
Mutations write to it first and return; the in-memory snapshot changes only
when the docstore's change subscription echoes the write back. This keeps
the snapshot identical across every process subscribed to the same backend,
including the process that performed the write.

Between the write and its echo, a per-record pending overlay answers reads
for that record, so stacked mutations compose:

	v1, _ := store.RateSoftware(ctx, id, 5) // persisted, echo pending
	v2, _ := store.RateSoftware(ctx, id, 3) // sees v1's rating, not the snapshot's

# Mutation Serialization

Mutations on the same (collection, id) pair are serialized by a keyed mutex;
mutations on distinct records proceed concurrently. Ratings therefore never
lose updates regardless of how many clients rate the same entry at once.

# Lifecycle

Store implements suture.Service. Serve runs the change pump that consumes
docstore events, folds them into snapshots and notifies subscribers. The
pump is supervised under the data layer of the application tree; if the
docstore subscription drops, suture restarts the pump and New's initial
List pass rebuilds the snapshots.

# Errors

Operations return typed errors the API layer maps onto the response
envelope: ValidationError for rejected input, ErrNotFound for absent
records, ErrPersistence wrapping any docstore failure, and ErrClosed after
shutdown. Failed operations never corrupt the snapshot; the store stays
usable.
*/
package catalog
