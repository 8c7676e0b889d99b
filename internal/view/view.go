// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package view implements derived read views over catalog snapshots.
//
// All functions are pure: they never mutate their input slices and return
// fresh slices, so concurrent readers can share the same snapshot.
package view

import (
	"sort"
	"strings"

	"github.com/tomtom215/catalogus/internal/models"
)

// TopicSort names a supported class topic ordering.
type TopicSort string

const (
	// SortNewest orders by creation date, most recent first.
	SortNewest TopicSort = "newest"
	// SortOldest orders by creation date, oldest first.
	SortOldest TopicSort = "oldest"
	// SortRating orders by rating, highest first.
	SortRating TopicSort = "rating"
	// SortTitle orders by title ascending.
	SortTitle TopicSort = "title"
)

// Valid reports whether s names a known topic sort.
func (s TopicSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortRating, SortTitle:
		return true
	}
	return false
}

// matches reports whether any of the fields contains the query,
// case-insensitively. An empty query matches everything.
func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterSoftware returns the entries whose name, author, category,
// description or objective contains the query.
func FilterSoftware(entries []models.SoftwareEntry, query string) []models.SoftwareEntry {
	out := make([]models.SoftwareEntry, 0, len(entries))
	for _, e := range entries {
		if matches(query, e.Name, e.Author, e.Category, e.Description, e.Objective) {
			out = append(out, e)
		}
	}
	return out
}

// FilterClassifications returns the classifications whose name, description,
// examples or interest links contain the query.
func FilterClassifications(entries []models.Classification, query string) []models.Classification {
	out := make([]models.Classification, 0, len(entries))
	for _, c := range entries {
		fields := make([]string, 0, 2+len(c.Examples)+len(c.InterestLinks))
		fields = append(fields, c.Name, c.Description)
		fields = append(fields, c.Examples...)
		fields = append(fields, c.InterestLinks...)
		if matches(query, fields...) {
			out = append(out, c)
		}
	}
	return out
}

// FilterTopics returns the topics whose title, description or content
// contains the query.
func FilterTopics(topics []models.ClassTopic, query string) []models.ClassTopic {
	out := make([]models.ClassTopic, 0, len(topics))
	for _, t := range topics {
		if matches(query, t.Title, t.Description, t.Content) {
			out = append(out, t)
		}
	}
	return out
}

// SortTopics returns a sorted copy of topics. Unknown orders fall back to
// SortNewest. Sorting is stable, so equal elements keep snapshot order.
func SortTopics(topics []models.ClassTopic, order TopicSort) []models.ClassTopic {
	out := make([]models.ClassTopic, len(topics))
	copy(out, topics)

	switch order {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedDate.Before(out[j].CreatedDate)
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.Compare(out[i].Title, out[j].Title) < 0
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedDate.After(out[j].CreatedDate)
		})
	}
	return out
}
