// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a mutation targets an unknown record.
	ErrNotFound = errors.New("catalog: record not found")

	// ErrPersistence wraps document store failures. The in-memory snapshot is
	// untouched when a mutation fails with this error.
	ErrPersistence = errors.New("catalog: persistence failure")

	// ErrClosed is returned for operations after the store shut down.
	ErrClosed = errors.New("catalog: store closed")

	// errSubscriptionClosed makes the pump exit non-nil when the docstore
	// drops its change feed, so the supervisor restarts it.
	errSubscriptionClosed = errors.New("catalog: change subscription closed")
)

// ValidationError reports a rejected mutation input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: invalid %s: %s", e.Field, e.Reason)
}

// persistErr wraps a docstore error under ErrPersistence.
func persistErr(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
