// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package models defines the catalog entity records and their wire format.
//
// JSON tags follow the reference frontend's field names (camelCase) so the
// API stays wire-compatible with existing clients.
package models

import "time"

// Kind identifies one of the four catalog collections.
type Kind string

const (
	KindSoftware        Kind = "software"
	KindClassifications Kind = "classifications"
	KindForumPosts      Kind = "forum_posts"
	KindClassTopics     Kind = "class_topics"
)

// Kinds lists all collection kinds in a fixed order.
var Kinds = []Kind{KindSoftware, KindClassifications, KindForumPosts, KindClassTopics}

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	switch k {
	case KindSoftware, KindClassifications, KindForumPosts, KindClassTopics:
		return true
	}
	return false
}

// SoftwareEntry is a catalog entry for an AI software product.
//
// Rating is the running mean of all submitted ratings; RatingCount is the
// number of submissions. Entries are created via the add operation and only
// ever mutated by the rate operation.
type SoftwareEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Objective   string  `json:"objective"`
	AccessLink  string  `json:"accessLink"`
	License     string  `json:"license"`
	ReleaseYear int     `json:"releaseYear"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}

// Classification is a taxonomy entry describing a family of AI techniques.
// The collection is seeded once and read-mostly: no add or delete operation
// is exposed, only rating.
type Classification struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Examples      []string `json:"examples"`
	ImageURL      string   `json:"imageUrl"`
	InterestLinks []string `json:"interestLinks"`
	Rating        float64  `json:"rating"`
	RatingCount   int      `json:"ratingCount"`
}

// ForumPost is a discussion thread. Replies are append-only and ordered by
// insertion.
type ForumPost struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Author  string       `json:"author"`
	Date    time.Time    `json:"date"`
	Replies []ForumReply `json:"replies"`
}

// ForumReply is a single reply within a forum post.
type ForumReply struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// ClassTopic is a long-form educational entry. Content may contain line
// breaks that clients must render verbatim. The frontend's transient
// "expanded" display flag is UI-local and deliberately absent here.
type ClassTopic struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"ratingCount"`
	CreatedDate time.Time `json:"createdDate"`
}
