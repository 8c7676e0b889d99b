// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/catalogus/internal/config"
)

// Router wires the handlers and middleware into the chi route tree.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, security config.SecurityConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewChiMiddleware(security),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(router.mw.RealIP())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS()) // CORS must be global to handle OPTIONS preflight

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(PrometheusMetrics())

		r.Get("/health", router.handler.Health)
		r.Get("/stats", router.handler.Stats)
		r.Get("/ws", router.handler.WebSocket)

		r.Route("/software", func(r chi.Router) {
			r.Get("/", router.handler.Software)
			r.Post("/", router.handler.AddSoftware)
			r.Post("/{id}/rate", router.handler.RateSoftware)
		})

		r.Route("/classifications", func(r chi.Router) {
			r.Get("/", router.handler.Classifications)
			r.Post("/{id}/rate", router.handler.RateClassification)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", router.handler.Posts)
			r.Post("/", router.handler.AddPost)
			r.Post("/{id}/replies", router.handler.AddReply)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", router.handler.Topics)
			r.Post("/", router.handler.AddTopic)
			r.Post("/{id}/rate", router.handler.RateTopic)
			r.Patch("/{id}", router.handler.UpdateTopic)
			r.Delete("/{id}", router.handler.DeleteTopic)
		})

		r.Route("/speech", func(r chi.Router) {
			r.Post("/start", router.handler.SpeechStart)
			r.Post("/stop", router.handler.SpeechStop)
			r.Post("/events", router.handler.SpeechEvents)
		})
	})

	// Prometheus scrape endpoint, outside the rate-limited API tree.
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	return r
}
