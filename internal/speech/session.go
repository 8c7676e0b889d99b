// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package speech

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
)

// State is a session's capture state.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// Consumer receives session messages for delivery to the owning client.
type Consumer func(Message)

// Session is the per-client voice-search state machine: Idle → Recording on
// Start, back to Idle when the recognizer signals end-of-session. A manual
// Stop and the recognizer's own end both land in Idle; the manualStop flag
// records which path was taken.
type Session struct {
	id       string
	language string
	rec      Recognizer
	consumer Consumer
	log      zerolog.Logger

	mu         sync.Mutex
	state      State
	manualStop bool
}

// NewSession builds an idle session. consumer must not be nil.
func NewSession(id, language string, rec Recognizer, consumer Consumer) *Session {
	return &Session{
		id:       id,
		language: language,
		rec:      rec,
		consumer: consumer,
		log:      logging.WithComponent("speech").With().Str("session_id", id).Logger(),
		state:    StateIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current capture state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins a capture. Starting while recording is rejected.
func (s *Session) Start(ctx context.Context) error {
	if s.rec == nil {
		return ErrUnavailable
	}

	s.mu.Lock()
	if s.state == StateRecording {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	s.state = StateRecording
	s.manualStop = false
	s.mu.Unlock()

	if err := s.rec.Start(ctx, s.language); err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return err
	}

	s.log.Debug().Str("language", s.language).Msg("Capture started")
	return nil
}

// Stop ends a capture on the user's request. The session stays in the
// recording state until the recognizer acknowledges with its end signal;
// the manualStop flag marks the eventual end as user-initiated.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrNotRecording
	}
	s.manualStop = true
	s.mu.Unlock()

	if err := s.rec.Stop(ctx); err != nil {
		// The recognizer is gone; end the session locally.
		s.HandleEnd()
		return err
	}

	s.log.Debug().Msg("Capture stop requested")
	return nil
}

// HandleTranscript delivers a final transcript to the consumer. Transcripts
// outside a capture are dropped.
func (s *Session) HandleTranscript(text string) {
	s.mu.Lock()
	recording := s.state == StateRecording
	s.mu.Unlock()
	if !recording {
		s.log.Debug().Msg("Dropping transcript outside capture")
		return
	}

	s.consumer(Message{
		Type:       MessageTranscript,
		SessionID:  s.id,
		Transcript: text,
	})
}

// HandleNoMatch reports that the recognizer heard speech it could not match.
func (s *Session) HandleNoMatch() {
	s.consumer(Message{Type: MessageNoMatch, SessionID: s.id})
}

// HandleError reports a recognizer failure. The code is normalized onto the
// fixed set; the session stays recording until the end signal arrives.
func (s *Session) HandleError(code string) {
	normalized := NormalizeCode(code)
	metrics.SpeechSessionErrors.WithLabelValues(normalized).Inc()
	s.log.Warn().Str("code", normalized).Msg("Recognizer error")

	s.consumer(Message{
		Type:      MessageError,
		SessionID: s.id,
		Code:      normalized,
	})
}

// HandleEnd processes the recognizer's end-of-session signal, which arrives
// independent of success or failure. The session returns to idle and the
// consumer learns whether the end was user-initiated.
func (s *Session) HandleEnd() {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	manual := s.manualStop
	s.manualStop = false
	s.mu.Unlock()

	s.log.Debug().Bool("manual", manual).Msg("Capture ended")
	s.consumer(Message{
		Type:       MessageEnd,
		SessionID:  s.id,
		ManualStop: manual,
	})
}
