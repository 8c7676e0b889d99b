// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package logging provides the zerolog-backed logging facade for Catalogus.

Init configures the global logger once from the logging configuration
(level, json or console format, optional caller annotation); until then a
sane default writes JSON to stderr, so early startup errors are never lost.

Most code logs through the package-level helpers:

	logging.Info().Str("driver", "badger").Msg("Document store opened")
	logging.WithComponent("catalog").Error().Err(err).Msg("Load failed")

Request-scoped logging attaches the request id carried in the context:

	logging.Ctx(r.Context()).Info().Msg("Processing request")

NewSlogLogger adapts the same sink to *slog.Logger for libraries that speak
log/slog (the suture supervisor via sutureslog). NewTestLogger returns a
logger writing to an arbitrary io.Writer for assertions in tests.
*/
package logging
