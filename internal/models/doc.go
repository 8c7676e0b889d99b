// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package models defines the entity records of the catalog: software
// entries, classifications, forum posts with replies, class topics, and the
// aggregate stats record. JSON tags use the camelCase names the frontend
// expects. Kind enumerates the four collections with their declared sort
// orders documented on each record type.
package models
