// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package rating implements the running-average rating update shared by all
// rateable collections.
package rating

import "errors"

const (
	// MinStars and MaxStars bound a single rating submission.
	MinStars = 1
	MaxStars = 5
)

var (
	// ErrInvalidRating is returned when a submission is outside [MinStars, MaxStars].
	ErrInvalidRating = errors.New("rating: stars out of range")

	// ErrInvalidCount is returned when the current rating count is negative.
	ErrInvalidCount = errors.New("rating: negative rating count")
)

// Apply folds one star submission into a running average.
//
// Given the current mean rating over count submissions, it returns the mean
// and count after adding stars. The update is exact for the sequence of
// submissions applied: newRating = (rating*count + stars) / (count + 1).
func Apply(rating float64, count int, stars int) (float64, int, error) {
	if stars < MinStars || stars > MaxStars {
		return 0, 0, ErrInvalidRating
	}
	if count < 0 {
		return 0, 0, ErrInvalidCount
	}
	newCount := count + 1
	newRating := (rating*float64(count) + float64(stars)) / float64(newCount)
	return newRating, newCount, nil
}
