// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/rating"
	"github.com/tomtom215/catalogus/internal/speech"
)

// writeDomainError maps a catalog, rating or speech error onto the
// standardized error response.
func writeDomainError(rw *ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), map[string]any{
			"field":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.Is(err, rating.ErrInvalidRating):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "stars must be between 1 and 5")
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, speech.ErrSessionNotFound):
		rw.NotFound("resource not found")
	case errors.Is(err, speech.ErrUnavailable):
		rw.ServiceUnavailable("voice search is not available")
	case errors.Is(err, speech.ErrAlreadyRecording), errors.Is(err, speech.ErrNotRecording):
		rw.Error(http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, catalog.ErrPersistence):
		rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, "backing store rejected the operation")
	case errors.Is(err, catalog.ErrClosed):
		rw.ServiceUnavailable("catalog is shutting down")
	default:
		rw.InternalError("unexpected error")
	}
}
