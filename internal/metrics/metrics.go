// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package metrics provides Prometheus instrumentation for the catalog server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Catalog store operations and snapshot broadcasts
// - Document store persistence (SurrealDB / Badger / memory)
// - API endpoint latency and throughput
// - WebSocket connections
// - Speech sessions

var (
	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_operations_total",
			Help: "Total number of catalog store mutations by collection and operation",
		},
		[]string{"collection", "operation", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_store_operation_duration_seconds",
			Help:    "Duration of catalog store mutations, including persistence round trip",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	SnapshotBroadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_snapshot_broadcasts_total",
			Help: "Total number of collection snapshots delivered to subscribers",
		},
		[]string{"collection"},
	)

	Subscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_subscribers",
			Help: "Current number of snapshot subscribers per collection",
		},
		[]string{"collection"},
	)

	// Document Store Metrics
	DocstoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Total number of document store operations by driver and outcome",
		},
		[]string{"driver", "operation", "status"},
	)

	DocstoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docstore_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	DocstoreChangeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_change_events_total",
			Help: "Total number of change notifications received from the document store",
		},
		[]string{"collection", "action"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker by outcome",
		},
		[]string{"name", "outcome"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures recorded by the circuit breaker",
		},
		[]string{"name"},
	)

	// API Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of messages broadcast to WebSocket clients",
		},
		[]string{"type"},
	)

	WebSocketClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_clients_dropped_total",
			Help: "Total number of WebSocket clients dropped due to slow consumption",
		},
	)

	// Speech Metrics
	SpeechSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "speech_sessions_active",
			Help: "Current number of active speech recognition sessions",
		},
	)

	SpeechSessionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speech_session_errors_total",
			Help: "Total number of speech recognition errors by code",
		},
		[]string{"code"},
	)
)

// RecordStoreOperation records one catalog store mutation with its duration.
func RecordStoreOperation(collection, operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(collection, operation, status).Inc()
	StoreOperationDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
}

// RecordDocstoreOperation records one document store operation with its duration.
func RecordDocstoreOperation(driver, operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DocstoreOperations.WithLabelValues(driver, operation, status).Inc()
	DocstoreOperationDuration.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}
