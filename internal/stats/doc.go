// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package stats computes the aggregate statistics record from the current
// catalog snapshots: per-collection totals, average ratings guarded against
// empty collections (0, never NaN), and the top three rated items per
// ratable collection ordered by rating descending with id as the tie-break.
// Compute never mutates its inputs; sorting happens on copies.
package stats
