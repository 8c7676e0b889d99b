// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"net/http"

	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/speech"
	ws "github.com/tomtom215/catalogus/internal/websocket"
)

// SpeechStart handles POST /api/v1/speech/start. Session messages are pushed
// to the websocket client named in the request.
func (h *Handler) SpeechStart(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SpeechStartRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	clientID := req.ClientID
	consumer := func(msg speech.Message) {
		if !h.hub.SendTo(clientID, ws.MessageTypeSpeech, msg) {
			logging.Debug().
				Uint64("client_id", clientID).
				Str("session_id", msg.SessionID).
				Msg("speech message for disconnected client dropped")
		}
	}

	sessionID, err := h.speech.Start(r.Context(), consumer)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(map[string]string{"sessionId": sessionID})
}

// SpeechStop handles POST /api/v1/speech/stop.
func (h *Handler) SpeechStop(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SpeechStopRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if err := h.speech.Stop(r.Context(), req.SessionID); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(map[string]string{"sessionId": req.SessionID})
}

// SpeechEvents handles POST /api/v1/speech/events, the recognizer event
// ingress: transcript, no_match, error and end.
func (h *Handler) SpeechEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SpeechEventRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	var err error
	switch req.Event {
	case SpeechEventTranscript:
		err = h.speech.HandleTranscript(req.SessionID, req.Transcript)
	case SpeechEventNoMatch:
		err = h.speech.HandleNoMatch(req.SessionID)
	case SpeechEventError:
		err = h.speech.HandleError(req.SessionID, req.Code)
	case SpeechEventEnd:
		err = h.speech.HandleEnd(req.SessionID)
	}
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(map[string]string{"sessionId": req.SessionID})
}
