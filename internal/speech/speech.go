// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package speech models voice-search sessions against an external
// speech-to-text recognizer.
//
// The recognizer itself runs outside this process (in the browser, against
// the platform speech API); the server side owns the session state machine
// and relays transcripts to the client that started the session. Recognizer
// events reach a Session through its Handle* methods.
package speech

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no recognizer is configured or voice
// search is disabled.
var ErrUnavailable = errors.New("speech: recognition unavailable")

// ErrAlreadyRecording is returned by Start while a capture is in progress.
var ErrAlreadyRecording = errors.New("speech: session already recording")

// ErrNotRecording is returned by Stop when no capture is in progress.
var ErrNotRecording = errors.New("speech: session not recording")

// Recognition error codes, matching the fixed set emitted by the external
// recognizer. Unknown codes normalize to CodeOther.
const (
	CodeNoSpeech     = "no-speech"
	CodeAudioCapture = "audio-capture"
	CodeNotAllowed   = "not-allowed"
	CodeNetwork      = "network"
	CodeOther        = "other"
)

var knownCodes = map[string]struct{}{
	CodeNoSpeech:     {},
	CodeAudioCapture: {},
	CodeNotAllowed:   {},
	CodeNetwork:      {},
	CodeOther:        {},
}

// RecognitionError is a recognizer failure with its error code.
type RecognitionError struct {
	Code string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("speech: recognition failed: %s", e.Code)
}

// NormalizeCode maps an arbitrary recognizer code onto the fixed set.
func NormalizeCode(code string) string {
	if _, ok := knownCodes[code]; ok {
		return code
	}
	return CodeOther
}

// Recognizer is the external speech-to-text collaborator. Start begins a
// capture and Stop ends one early; results arrive as events, not as return
// values.
type Recognizer interface {
	Start(ctx context.Context, language string) error
	Stop(ctx context.Context) error
}

// remoteRecognizer represents a recognizer driven entirely by the remote
// client: Start and Stop are acknowledged locally and the actual capture
// control happens on the client side.
type remoteRecognizer struct{}

func (remoteRecognizer) Start(context.Context, string) error { return nil }
func (remoteRecognizer) Stop(context.Context) error          { return nil }

// NewRemoteRecognizer returns the recognizer used for browser-driven
// sessions, where events are ingested over the API.
func NewRemoteRecognizer() Recognizer { return remoteRecognizer{} }

// MessageType identifies a session message pushed to the owning client.
type MessageType string

const (
	MessageTranscript MessageType = "transcript"
	MessageNoMatch    MessageType = "no_match"
	MessageError      MessageType = "error"
	MessageEnd        MessageType = "end"
)

// Message is one session event relayed to the owning client.
type Message struct {
	Type       MessageType `json:"type"`
	SessionID  string      `json:"sessionId"`
	Transcript string      `json:"transcript,omitempty"`
	Code       string      `json:"code,omitempty"`
	// ManualStop reports whether the session ended because the user asked,
	// as opposed to the recognizer deciding it was done. Messaging only.
	ManualStop bool `json:"manualStop,omitempty"`
}
