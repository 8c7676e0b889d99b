// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package stats aggregates catalog snapshots into summary statistics.
package stats

import (
	"sort"

	"github.com/tomtom215/catalogus/internal/models"
)

// topN is the leaderboard size for top-rated items.
const topN = 3

// Snapshot is the input to Compute: one consistent view of all four
// collections.
type Snapshot struct {
	Software        []models.SoftwareEntry
	Classifications []models.Classification
	ForumPosts      []models.ForumPost
	ClassTopics     []models.ClassTopic
}

// Compute derives the aggregate statistics record from a snapshot. Inputs
// are never mutated; averages over empty collections are 0.
func Compute(snap Snapshot) models.Stats {
	return models.Stats{
		TotalSoftware:        len(snap.Software),
		TotalClassifications: len(snap.Classifications),
		TotalPosts:           len(snap.ForumPosts),
		TotalClassTopics:     len(snap.ClassTopics),

		AvgSoftwareRating:       avgSoftware(snap.Software),
		AvgClassificationRating: avgClassifications(snap.Classifications),
		AvgClassTopicRating:     avgTopics(snap.ClassTopics),

		TopRatedSoftware:        topRated(ratedSoftware(snap.Software)),
		TopRatedClassifications: topRated(ratedClassifications(snap.Classifications)),
		TopRatedClassTopics:     topRated(ratedTopics(snap.ClassTopics)),
	}
}

func avgSoftware(entries []models.SoftwareEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Rating
	}
	return sum / float64(len(entries))
}

func avgClassifications(entries []models.Classification) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, c := range entries {
		sum += c.Rating
	}
	return sum / float64(len(entries))
}

func avgTopics(topics []models.ClassTopic) float64 {
	if len(topics) == 0 {
		return 0
	}
	var sum float64
	for _, t := range topics {
		sum += t.Rating
	}
	return sum / float64(len(topics))
}

func ratedSoftware(entries []models.SoftwareEntry) []models.RatedItem {
	out := make([]models.RatedItem, len(entries))
	for i, e := range entries {
		out[i] = models.RatedItem{ID: e.ID, Title: e.Name, Rating: e.Rating}
	}
	return out
}

func ratedClassifications(entries []models.Classification) []models.RatedItem {
	out := make([]models.RatedItem, len(entries))
	for i, c := range entries {
		out[i] = models.RatedItem{ID: c.ID, Title: c.Name, Rating: c.Rating}
	}
	return out
}

func ratedTopics(topics []models.ClassTopic) []models.RatedItem {
	out := make([]models.RatedItem, len(topics))
	for i, t := range topics {
		out[i] = models.RatedItem{ID: t.ID, Title: t.Title, Rating: t.Rating}
	}
	return out
}

// topRated returns up to topN items ordered by rating descending. Ties break
// on id ascending so the leaderboard is deterministic.
func topRated(items []models.RatedItem) []models.RatedItem {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}
