// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package api implements the HTTP and WebSocket surface of Catalogus.

The router is go-chi/chi with CORS, IP rate limiting, panic recovery,
request-ID propagation and Prometheus request metrics. All responses share
one envelope:

	{
	  "success": true,
	  "data": { ... },
	  "error": null,
	  "meta": {
	    "request_id": "...",
	    "timestamp": "...",
	    "duration_ms": 12,
	    "pagination": { "total": 3, "count": 3, "offset": 0, "limit": 50, "has_more": false }
	  }
	}

Errors carry a machine-readable code (VALIDATION_FAILED, NOT_FOUND,
CONFLICT, EXTERNAL_SERVICE_FAILED, ...) plus field-level details where the
validator produced them.

# Routes

Everything lives under /api/v1:

  - GET/POST /software, POST /software/{id}/rate
  - GET /classifications, POST /classifications/{id}/rate
  - GET/POST /posts, POST /posts/{id}/replies
  - GET/POST /topics, POST /topics/{id}/rate, PATCH|DELETE /topics/{id}
  - GET /stats, GET /health
  - GET /ws — WebSocket upgrade (snapshot and speech push)
  - POST /speech/start|stop|events

/metrics is mounted outside the rate-limited group so scrapers are never
throttled.

List endpoints accept ?q= for filtering, ?limit=/?offset= for pagination
(clamped to the configured bounds), and /topics additionally ?sort=
(newest, oldest, rating, title).

Request DTOs are validated with go-playground/validator before any store
call; domain errors are translated to envelope codes in errors.go so
handlers stay free of status-code logic.
*/
package api
