// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

/*
Package metrics provides Prometheus instrumentation for Catalogus.

All collectors register through promauto at package init and are exported
at /metrics in Prometheus text format.

# Available Metrics

Catalog store:
  - catalog_store_operations_total (counter): collection, operation, status
  - catalog_store_operation_duration_seconds (histogram)
  - catalog_snapshot_broadcasts_total (counter): collection
  - catalog_subscribers (gauge): collection

Document store:
  - docstore_operations_total / docstore_operation_duration_seconds:
    driver, operation
  - docstore_change_events_total: collection, action
  - circuit_breaker_state, _requests_total, _transitions_total,
    _consecutive_failures

HTTP and WebSocket:
  - http_request_duration_seconds / http_requests_total: method, route
    pattern (bounded cardinality), status
  - websocket_connections, websocket_messages_sent_total,
    websocket_clients_dropped_total

Speech:
  - speech_sessions_active (gauge)
  - speech_session_errors_total (counter): code

Record helpers (RecordStoreOperation, RecordDocstoreOperation,
RecordHTTPRequest) take the error and start time so call sites stay
one-liners. Everything is safe for concurrent use; the Prometheus client
synchronizes internally.
*/
package metrics
