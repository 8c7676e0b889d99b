// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package speech manages voice-search recognition sessions.

Audio capture and recognition run in the browser (the Web Speech API); this
package holds the server-side session state so results can be routed to the
right WebSocket client and sessions can be expired, counted and logged.

A Session moves between two states, idle and recording. Stop marks the
session as manually stopped but does NOT leave recording: the recognizer
keeps delivering final results until its end event arrives, matching the
browser contract where stop() is followed by onend. The manualStop flag
rides along on the end message so the client can distinguish "user tapped
stop" from "recognizer gave up".

Recognition errors are normalized to a small code set — no-speech,
audio-capture, not-allowed, network, other — before they reach consumers or
metrics.

Manager owns the sessions: Start mints a uuid session id and arms an expiry
timer; recognizer events arriving over the API (transcript, no_match,
error, end) are routed by session id; end — whether from the recognizer, a
timeout or shutdown — removes the session and emits the final message
through the session's consumer callback.
*/
package speech
