// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package models

// RatedItem is a flattened (id, title, rating) projection used in the
// top-rated leaderboards of Stats.
type RatedItem struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

// Stats is an aggregate view over all four collections, recomputed on demand
// from a consistent snapshot. Averages are 0 for empty collections.
type Stats struct {
	TotalSoftware        int `json:"totalSoftware"`
	TotalClassifications int `json:"totalClassifications"`
	TotalPosts           int `json:"totalPosts"`
	TotalClassTopics     int `json:"totalClassTopics"`

	AvgSoftwareRating       float64 `json:"avgSoftwareRating"`
	AvgClassificationRating float64 `json:"avgClassificationRating"`
	AvgClassTopicRating     float64 `json:"avgClassTopicRating"`

	TopRatedSoftware        []RatedItem `json:"topRatedSoftware"`
	TopRatedClassifications []RatedItem `json:"topRatedClassifications"`
	TopRatedClassTopics     []RatedItem `json:"topRatedClassTopics"`
}
