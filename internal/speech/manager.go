// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
)

// ErrSessionNotFound is returned for events addressed to an unknown or
// expired session.
var ErrSessionNotFound = errors.New("speech: session not found")

// Manager owns the active voice-search sessions. Sessions that outlive the
// configured timeout are ended as if the recognizer had signaled end.
type Manager struct {
	cfg config.SpeechConfig
	rec Recognizer
	log zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	session *Session
	timer   *time.Timer
}

// NewManager builds a Manager. With speech disabled every Start returns
// ErrUnavailable.
func NewManager(cfg config.SpeechConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		rec:      NewRemoteRecognizer(),
		log:      logging.WithComponent("speech-manager"),
		sessions: make(map[string]*managedSession),
	}
}

// Start opens a new session and begins capturing. The returned session id
// addresses subsequent Stop and event calls.
func (m *Manager) Start(ctx context.Context, consumer Consumer) (string, error) {
	if !m.cfg.Enabled {
		return "", ErrUnavailable
	}

	id := uuid.NewString()
	session := NewSession(id, m.cfg.Language, m.rec, consumer)
	if err := session.Start(ctx); err != nil {
		return "", err
	}

	ms := &managedSession{session: session}
	if m.cfg.SessionTimeout > 0 {
		ms.timer = time.AfterFunc(m.cfg.SessionTimeout, func() {
			m.expire(id)
		})
	}

	m.mu.Lock()
	m.sessions[id] = ms
	m.mu.Unlock()
	metrics.SpeechSessionsActive.Inc()

	m.log.Debug().Str("session_id", id).Msg("Session opened")
	return id, nil
}

// Stop ends a session on the user's request.
func (m *Manager) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return ms.session.Stop(ctx)
}

// HandleTranscript routes a final transcript to its session.
func (m *Manager) HandleTranscript(id, text string) error {
	return m.withSession(id, func(s *Session) { s.HandleTranscript(text) })
}

// HandleNoMatch routes a no-match condition to its session.
func (m *Manager) HandleNoMatch(id string) error {
	return m.withSession(id, func(s *Session) { s.HandleNoMatch() })
}

// HandleError routes a recognizer error to its session.
func (m *Manager) HandleError(id, code string) error {
	return m.withSession(id, func(s *Session) { s.HandleError(code) })
}

// HandleEnd processes the recognizer's end signal and releases the session.
func (m *Manager) HandleEnd(id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	if ms.timer != nil {
		ms.timer.Stop()
	}
	ms.session.HandleEnd()
	metrics.SpeechSessionsActive.Dec()
	return nil
}

// Active reports the number of open sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every open session.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.HandleEnd(id)
	}
}

// expire ends a session that outlived the configured timeout.
func (m *Manager) expire(id string) {
	m.log.Debug().Str("session_id", id).Msg("Session timed out")
	_ = m.HandleEnd(id)
}

func (m *Manager) withSession(id string, fn func(*Session)) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	fn(ms.session)
	return nil
}
