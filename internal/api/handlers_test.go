// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogus/internal/catalog"
	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/docstore"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/speech"
	ws "github.com/tomtom215/catalogus/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

type testEnv struct {
	server *httptest.Server
	store  *catalog.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ms := docstore.NewMemoryStore()
	t.Cleanup(func() { _ = ms.Close() })
	if err := docstore.Seed(ctx, ms); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store, err := catalog.New(ctx, ms)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(store.Close)
	go func() { _ = store.Serve(ctx) }()

	hub := ws.NewHub()
	go func() { _ = hub.RunWithContext(ctx) }()

	sm := speech.NewManager(config.SpeechConfig{Enabled: true, Language: "es-ES"})
	t.Cleanup(sm.Close)

	handler := NewHandler(store, sm, hub, config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100})
	router := NewRouter(handler, config.SecurityConfig{
		CORSOrigins:       []string{"http://localhost:4200"},
		RateLimitDisabled: true,
	})

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, APIResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope APIResponse
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return resp, envelope
}

// dataAs unmarshals the envelope's data into out through a JSON round trip.
func dataAs(t *testing.T, envelope APIResponse, out any) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestListSoftware(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/software", nil)
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		t.Fatalf("status %d, success %v", resp.StatusCode, envelope.Success)
	}

	var items []map[string]any
	dataAs(t, envelope, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 seeded entries, got %d", len(items))
	}
	// Name ascending.
	if items[0]["name"] != "ChatGPT" {
		t.Errorf("first entry = %v, want ChatGPT", items[0]["name"])
	}
	if envelope.Meta == nil || envelope.Meta.Pagination == nil || envelope.Meta.Pagination.Total != 3 {
		t.Errorf("missing pagination meta: %+v", envelope.Meta)
	}
	if envelope.Meta.RequestID == "" {
		t.Error("missing request id in meta")
	}
}

func TestListSoftwareFilterAndPaging(t *testing.T) {
	env := newTestEnv(t)

	_, envelope := env.do(t, http.MethodGet, "/api/v1/software?q=tensorflow", nil)
	var items []map[string]any
	dataAs(t, envelope, &items)
	if len(items) != 1 || items[0]["name"] != "TensorFlow" {
		t.Errorf("filter q=tensorflow: got %+v", items)
	}

	_, envelope = env.do(t, http.MethodGet, "/api/v1/software?limit=2", nil)
	dataAs(t, envelope, &items)
	if len(items) != 2 {
		t.Errorf("limit=2: got %d items", len(items))
	}
	if !envelope.Meta.Pagination.HasMore {
		t.Error("limit=2: expected has_more")
	}
}

func TestAddSoftware(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodPost, "/api/v1/software", AddSoftwareRequest{
		Name:     "Hugging Face",
		Author:   "Hugging Face Inc",
		Category: "Plataforma",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created map[string]any
	dataAs(t, envelope, &created)
	if created["id"] == "" || created["ratingCount"].(float64) != 0 {
		t.Errorf("unexpected created entry: %+v", created)
	}

	// Blank name fails validation.
	resp, envelope = env.do(t, http.MethodPost, "/api/v1/software", AddSoftwareRequest{
		Name: "   ", Author: "x",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want VALIDATION_FAILED", envelope.Error)
	}
}

func TestRateSoftware(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodPost, "/api/v1/software/1/rate", RateRequest{Stars: 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var entry map[string]any
	dataAs(t, envelope, &entry)
	if entry["ratingCount"].(float64) != 121 {
		t.Errorf("ratingCount = %v, want 121", entry["ratingCount"])
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/software/1/rate", RateRequest{Stars: 9})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("stars=9: status = %d, want 400", resp.StatusCode)
	}

	resp, envelope = env.do(t, http.MethodPost, "/api/v1/software/missing/rate", RateRequest{Stars: 3})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", envelope.Error)
	}
}

func TestForumEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodPost, "/api/v1/posts", AddPostRequest{
		Title: "Nueva discusión", Content: "Contenido", Author: "Usuario3",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add post: status = %d, want 201", resp.StatusCode)
	}
	var post map[string]any
	dataAs(t, envelope, &post)
	postID := post["id"].(string)

	resp, envelope = env.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/replies", AddReplyRequest{
		Content: "Respuesta", Author: "Usuario1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add reply: status = %d, want 201", resp.StatusCode)
	}
	dataAs(t, envelope, &post)
	if replies := post["replies"].([]any); len(replies) != 1 {
		t.Errorf("expected 1 reply, got %d", len(replies))
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/posts/missing/replies", AddReplyRequest{
		Content: "x", Author: "y",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("reply to missing post: status = %d, want 404", resp.StatusCode)
	}
}

func TestTopicEndpoints(t *testing.T) {
	env := newTestEnv(t)

	_, envelope := env.do(t, http.MethodGet, "/api/v1/topics?sort=rating", nil)
	var items []map[string]any
	dataAs(t, envelope, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 seeded topics, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1]["rating"].(float64) < items[i]["rating"].(float64) {
			t.Errorf("topics not sorted by rating descending")
		}
	}

	resp, _ := env.do(t, http.MethodGet, "/api/v1/topics?sort=bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("sort=bogus: status = %d, want 400", resp.StatusCode)
	}

	resp, envelope = env.do(t, http.MethodPost, "/api/v1/topics", AddTopicRequest{
		Title: "Nuevo tema", Description: "Desc", Content: "Contenido",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add topic: status = %d, want 201", resp.StatusCode)
	}
	var topic map[string]any
	dataAs(t, envelope, &topic)
	topicID := topic["id"].(string)

	newTitle := "Tema actualizado"
	resp, envelope = env.do(t, http.MethodPatch, "/api/v1/topics/"+topicID, UpdateTopicRequest{Title: &newTitle})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch topic: status = %d, want 200", resp.StatusCode)
	}
	dataAs(t, envelope, &topic)
	if topic["title"] != newTitle {
		t.Errorf("title = %v, want %q", topic["title"], newTitle)
	}
	if topic["description"] != "Desc" {
		t.Errorf("partial update touched description: %v", topic["description"])
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/topics/"+topicID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete topic: status = %d, want 204", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/topics/"+topicID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var stats map[string]any
	dataAs(t, envelope, &stats)
	if stats["totalSoftware"].(float64) != 3 || stats["totalClassTopics"].(float64) != 3 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	top := stats["topRatedSoftware"].([]any)
	if len(top) != 3 {
		t.Errorf("expected 3 top rated software, got %d", len(top))
	}
}

func TestSpeechEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodPost, "/api/v1/speech/start", SpeechStartRequest{ClientID: 42})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("speech start: status = %d, want 201", resp.StatusCode)
	}
	var data map[string]string
	dataAs(t, envelope, &data)
	sessionID := data["sessionId"]
	if sessionID == "" {
		t.Fatal("no session id returned")
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/speech/events", SpeechEventRequest{
		SessionID: sessionID, Event: SpeechEventTranscript, Transcript: "redes neuronales",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("transcript event: status = %d, want 200", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/speech/stop", SpeechStopRequest{SessionID: sessionID})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("speech stop: status = %d, want 200", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/speech/events", SpeechEventRequest{
		SessionID: sessionID, Event: SpeechEventEnd,
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("end event: status = %d, want 200", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/speech/events", SpeechEventRequest{
		SessionID: sessionID, Event: SpeechEventEnd,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("event after end: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = env.do(t, http.MethodPost, "/api/v1/speech/events", SpeechEventRequest{
		SessionID: "x", Event: "bogus",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus event: status = %d, want 400", resp.StatusCode)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/nope", nil)
	if resp.StatusCode != http.StatusNotFound || envelope.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown path: status %d, error %+v", resp.StatusCode, envelope.Error)
	}

	resp, envelope = env.do(t, http.MethodDelete, "/api/v1/stats", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed || envelope.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("bad method: status %d, error %+v", resp.StatusCode, envelope.Error)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var data map[string]any
	dataAs(t, envelope, &data)
	if data["status"] != "ok" {
		t.Errorf("health status = %v", data["status"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "test-req-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "test-req-1" {
		t.Errorf("X-Request-ID = %q, want test-req-1", got)
	}
}

func TestSnapshotVisibleAfterMutation(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.store.RateSoftware(context.Background(), "2", 5); err != nil {
		t.Fatalf("RateSoftware: %v", err)
	}

	// The REST snapshot reflects the change once the echo lands.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, envelope := env.do(t, http.MethodGet, "/api/v1/software", nil)
		var items []map[string]any
		dataAs(t, envelope, &items)
		for _, item := range items {
			if item["id"] == "2" && item["ratingCount"].(float64) == 86 {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("snapshot never reflected the mutation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
