// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/validation"
)

// AddSoftwareRequest is the payload for creating a software entry.
type AddSoftwareRequest struct {
	Name        string `json:"name" validate:"notblank,max=200"`
	Objective   string `json:"objective" validate:"max=2000"`
	AccessLink  string `json:"accessLink" validate:"omitempty,url"`
	License     string `json:"license" validate:"max=100"`
	ReleaseYear int    `json:"releaseYear" validate:"omitempty,gte=1950,lte=2100"`
	Author      string `json:"author" validate:"notblank,max=200"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description" validate:"max=5000"`
}

// RateRequest is the payload for rating any ratable record.
type RateRequest struct {
	Stars int `json:"stars" validate:"gte=1,lte=5"`
}

// AddPostRequest is the payload for creating a forum post.
type AddPostRequest struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank,max=10000"`
	Author  string `json:"author" validate:"notblank,max=100"`
}

// AddReplyRequest is the payload for replying to a forum post.
type AddReplyRequest struct {
	Content string `json:"content" validate:"notblank,max=10000"`
	Author  string `json:"author" validate:"notblank,max=100"`
}

// AddTopicRequest is the payload for creating a class topic.
type AddTopicRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Image       string `json:"image" validate:"omitempty,url"`
	Description string `json:"description" validate:"notblank,max=2000"`
	Content     string `json:"content" validate:"notblank,max=50000"`
}

// UpdateTopicRequest is the payload for a partial topic update. Nil fields
// are left unchanged; rating fields are only mutable through the rate
// endpoint.
type UpdateTopicRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Image       *string `json:"image" validate:"omitempty"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Content     *string `json:"content" validate:"omitempty,max=50000"`
}

// SpeechStartRequest opens a voice-search session. ClientID is the
// websocket client id from the welcome message; session messages are pushed
// to that client.
type SpeechStartRequest struct {
	ClientID uint64 `json:"clientId" validate:"required"`
}

// SpeechStopRequest ends a voice-search session on the user's request.
type SpeechStopRequest struct {
	SessionID string `json:"sessionId" validate:"notblank"`
}

// Recognizer event names accepted by the speech events endpoint.
const (
	SpeechEventTranscript = "transcript"
	SpeechEventNoMatch    = "no_match"
	SpeechEventError      = "error"
	SpeechEventEnd        = "end"
)

// SpeechEventRequest carries one recognizer event from the client.
type SpeechEventRequest struct {
	SessionID  string `json:"sessionId" validate:"notblank"`
	Event      string `json:"event" validate:"oneof=transcript no_match error end"`
	Transcript string `json:"transcript" validate:"max=2000"`
	Code       string `json:"code" validate:"max=50"`
}

// decodeAndValidate decodes the request body into dst and validates it.
// On failure it writes the error response and returns false.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
