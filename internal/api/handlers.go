// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/models"
	"github.com/tomtom215/catalogus/internal/speech"
	"github.com/tomtom215/catalogus/internal/view"
	ws "github.com/tomtom215/catalogus/internal/websocket"
)

// Handler carries the collaborators the HTTP handlers need.
type Handler struct {
	store  *catalog.Store
	speech *speech.Manager
	hub    *ws.Hub
	cfg    config.APIConfig
}

// NewHandler creates a Handler.
func NewHandler(store *catalog.Store, sm *speech.Manager, hub *ws.Hub, cfg config.APIConfig) *Handler {
	return &Handler{
		store:  store,
		speech: sm,
		hub:    hub,
		cfg:    cfg,
	}
}

// pageParams reads limit/offset query parameters, clamped to the configured
// bounds.
func (h *Handler) pageParams(r *http.Request) (limit, offset int) {
	limit = h.cfg.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// page slices items to the requested window and builds pagination metadata.
func page[T any](items []T, limit, offset int) ([]T, *PaginationMeta) {
	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	window := items[offset:end]

	return window, &PaginationMeta{
		Total:   total,
		Count:   len(window),
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	}
}

// Software handles GET /api/v1/software with optional ?q= filtering.
func (h *Handler) Software(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	items := view.FilterSoftware(h.store.Software(), r.URL.Query().Get("q"))
	limit, offset := h.pageParams(r)
	window, meta := page(items, limit, offset)
	rw.SuccessWithPagination(window, meta)
}

// AddSoftware handles POST /api/v1/software.
func (h *Handler) AddSoftware(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AddSoftwareRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	entry, err := h.store.AddSoftware(r.Context(), catalog.AddSoftwareInput{
		Name:        req.Name,
		Objective:   req.Objective,
		AccessLink:  req.AccessLink,
		License:     req.License,
		ReleaseYear: req.ReleaseYear,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(entry)
}

// RateSoftware handles POST /api/v1/software/{id}/rate.
func (h *Handler) RateSoftware(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	entry, err := h.store.RateSoftware(r.Context(), chi.URLParam(r, "id"), req.Stars)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(entry)
}

// Classifications handles GET /api/v1/classifications with optional ?q=.
func (h *Handler) Classifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	items := view.FilterClassifications(h.store.Classifications(), r.URL.Query().Get("q"))
	limit, offset := h.pageParams(r)
	window, meta := page(items, limit, offset)
	rw.SuccessWithPagination(window, meta)
}

// RateClassification handles POST /api/v1/classifications/{id}/rate.
func (h *Handler) RateClassification(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	entry, err := h.store.RateClassification(r.Context(), chi.URLParam(r, "id"), req.Stars)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(entry)
}

// Posts handles GET /api/v1/posts.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, offset := h.pageParams(r)
	window, meta := page(h.store.ForumPosts(), limit, offset)
	rw.SuccessWithPagination(window, meta)
}

// AddPost handles POST /api/v1/posts.
func (h *Handler) AddPost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AddPostRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	post, err := h.store.AddForumPost(r.Context(), req.Title, req.Content, req.Author)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(post)
}

// AddReply handles POST /api/v1/posts/{id}/replies.
func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AddReplyRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	post, err := h.store.AddReply(r.Context(), chi.URLParam(r, "id"), req.Content, req.Author)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(post)
}

// Topics handles GET /api/v1/topics with optional ?q= and ?sort=.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sortKey := view.TopicSort(r.URL.Query().Get("sort"))
	if s := r.URL.Query().Get("sort"); s != "" && !sortKey.Valid() {
		rw.BadRequest("unknown sort order: " + s)
		return
	}

	items := view.FilterTopics(h.store.ClassTopics(), r.URL.Query().Get("q"))
	items = view.SortTopics(items, sortKey)
	limit, offset := h.pageParams(r)
	window, meta := page(items, limit, offset)
	rw.SuccessWithPagination(window, meta)
}

// AddTopic handles POST /api/v1/topics.
func (h *Handler) AddTopic(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AddTopicRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	topic, err := h.store.AddClassTopic(r.Context(), catalog.AddClassTopicInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(topic)
}

// UpdateTopic handles PATCH /api/v1/topics/{id}.
func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateTopicRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	topic, err := h.store.UpdateClassTopic(r.Context(), chi.URLParam(r, "id"), catalog.UpdateClassTopicInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(topic)
}

// DeleteTopic handles DELETE /api/v1/topics/{id}.
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.RemoveClassTopic(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

// RateTopic handles POST /api/v1/topics/{id}/rate.
func (h *Handler) RateTopic(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	topic, err := h.store.RateClassTopic(r.Context(), chi.URLParam(r, "id"), req.Stars)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(topic)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.store.Stats())
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]any{
		"status":            "ok",
		"websocket_clients": h.hub.GetClientCount(),
		"collections": map[string]int{
			string(models.KindSoftware):        len(h.store.Software()),
			string(models.KindClassifications): len(h.store.Classifications()),
			string(models.KindForumPosts):      len(h.store.ForumPosts()),
			string(models.KindClassTopics):     len(h.store.ClassTopics()),
		},
	})
}
