// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package rating implements the running-average rating aggregator used by
// every ratable collection: newRating = (rating*count + stars) / (count+1),
// with stars restricted to 1 through 5. Pure arithmetic; persistence and
// serialization live in internal/catalog.
package rating
