// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package view derives filtered and sorted projections of catalog
// snapshots. All functions are pure: they take a slice and return a new
// slice, never mutating their input, and are recomputed per request rather
// than cached (snapshots are already in memory). Matching is
// case-insensitive substring search over each entity's searchable fields;
// topic sorting supports newest, oldest, rating and title orders.
package view
