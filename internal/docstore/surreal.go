// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/tomtom215/catalogus/internal/config"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
	"github.com/tomtom215/catalogus/internal/models"
)

// SurrealStore is a Store backed by SurrealDB over a WebSocket connection.
// One live query per collection turns server-side changes into ChangeEvents,
// so mutations made by any client of the database reach every subscriber.
//
// All mutations pass through a circuit breaker. When SurrealDB is down the
// breaker opens after a failure streak and mutations fail fast instead of
// piling up on a dead connection.
type SurrealStore struct {
	db   *surrealdb.DB
	cb   *gobreaker.CircuitBreaker[any]
	name string
	bc   *broadcaster

	killIDs []string
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// NewSurrealStore connects to SurrealDB, authenticates, selects the
// configured namespace and database, and starts one live query per catalog
// collection.
func NewSurrealStore(ctx context.Context, cfg config.SurrealDBConfig) (*SurrealStore, error) {
	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelConnect()

	db, err := surrealdb.FromEndpointURLString(connectCtx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to surrealdb at %s: %w", cfg.URL, err)
	}

	if cfg.Username != "" {
		if _, err := db.SignIn(connectCtx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("surrealdb sign in: %w", err)
		}
	}

	if err := db.Use(connectCtx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("surrealdb use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	s := &SurrealStore{
		db:   db,
		name: "surrealdb",
		bc:   newBroadcaster(),
	}
	s.cb = s.newBreaker(cfg)

	// Live queries and their reader goroutines outlive the constructor ctx.
	liveCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, kind := range models.Kinds {
		live, err := surrealdb.Live(connectCtx, db, surrealmodels.Table(kind), false)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("start live query for %s: %w", kind, err)
		}
		s.killIDs = append(s.killIDs, live.String())

		notifications, err := db.LiveNotifications(live.String())
		if err != nil {
			cancel()
			return nil, fmt.Errorf("live notifications for %s: %w", kind, err)
		}

		s.wg.Add(1)
		go s.readNotifications(liveCtx, kind, notifications)
	}

	log := logging.WithComponent("docstore")
	log.Info().
		Str("driver", "surrealdb").
		Str("url", cfg.URL).
		Str("namespace", cfg.Namespace).
		Str("database", cfg.Database).
		Msg("Document store connected")

	return s, nil
}

// newBreaker configures the circuit breaker for store mutations:
// opens after a 60% failure rate with at least 10 requests in the window.
func (s *SurrealStore) newBreaker(cfg config.SurrealDBConfig) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(s.name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// execute wraps a SurrealDB call with circuit breaker protection.
func (s *SurrealStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
			counts := s.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)

	return result, nil
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// readNotifications converts live query notifications for one collection
// into ChangeEvents until the channel closes or ctx is canceled.
func (s *SurrealStore) readNotifications(ctx context.Context, kind models.Kind, ch <-chan connection.Notification) {
	defer s.wg.Done()

	log := logging.WithComponent("docstore")
	for {
		select {
		case <-ctx.Done():
			return
		case notification, ok := <-ch:
			if !ok {
				return
			}

			ev, err := notificationToEvent(kind, notification)
			if err != nil {
				log.Warn().Err(err).Str("collection", string(kind)).Msg("Dropping malformed live notification")
				continue
			}

			s.bc.publish(ev)
		}
	}
}

// notificationToEvent maps a live query notification to a ChangeEvent.
// Live queries without diff deliver the full record as map[string]any.
func notificationToEvent(kind models.Kind, n connection.Notification) (ChangeEvent, error) {
	record, ok := n.Result.(map[string]any)
	if !ok {
		return ChangeEvent{}, fmt.Errorf("unexpected live result type %T", n.Result)
	}

	id := recordIDString(record["id"])
	if id == "" {
		return ChangeEvent{}, fmt.Errorf("live notification without record id")
	}

	ev := ChangeEvent{Collection: kind, ID: id}

	switch n.Action {
	case connection.CreateAction:
		ev.Action = ActionCreate
	case connection.UpdateAction:
		ev.Action = ActionUpdate
	case connection.DeleteAction:
		ev.Action = ActionDelete
		return ev, nil
	default:
		return ChangeEvent{}, fmt.Errorf("unknown live action %q", n.Action)
	}

	data, err := marshalRecord(record, id)
	if err != nil {
		return ChangeEvent{}, err
	}
	ev.Data = data
	return ev, nil
}

// recordIDString extracts the plain string id from a SurrealDB record id
// value, which arrives as models.RecordID over CBOR.
func recordIDString(v any) string {
	switch id := v.(type) {
	case surrealmodels.RecordID:
		return fmt.Sprintf("%v", id.ID)
	case *surrealmodels.RecordID:
		return fmt.Sprintf("%v", id.ID)
	case string:
		return id
	default:
		return ""
	}
}

// marshalRecord serializes a record map to the JSON wire form used across
// the catalog, with the id normalized to a plain string.
func marshalRecord(record map[string]any, id string) ([]byte, error) {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	out["id"] = id

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", id, err)
	}
	return data, nil
}

// docToFields converts a document into a SurrealDB field map. The id field
// is carried by the record id, not the document body.
func docToFields(doc any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// Create stores a new document.
func (s *SurrealStore) Create(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.create(ctx, collection, id, doc)
	metrics.RecordDocstoreOperation(s.name, "create", err, start)
	return err
}

func (s *SurrealStore) create(ctx context.Context, collection models.Kind, id string, doc any) error {
	fields, err := docToFields(doc)
	if err != nil {
		return err
	}

	_, err = s.execute(func() (any, error) {
		return surrealdb.Create[map[string]any](ctx, s.db, surrealmodels.NewRecordID(string(collection), id), fields)
	})
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update replaces an existing document.
func (s *SurrealStore) Update(ctx context.Context, collection models.Kind, id string, doc any) error {
	start := time.Now()
	err := s.update(ctx, collection, id, doc)
	metrics.RecordDocstoreOperation(s.name, "update", err, start)
	return err
}

func (s *SurrealStore) update(ctx context.Context, collection models.Kind, id string, doc any) error {
	fields, err := docToFields(doc)
	if err != nil {
		return err
	}

	_, err = s.execute(func() (any, error) {
		return surrealdb.Update[map[string]any](ctx, s.db, surrealmodels.NewRecordID(string(collection), id), fields)
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document.
func (s *SurrealStore) Delete(ctx context.Context, collection models.Kind, id string) error {
	start := time.Now()
	err := s.deleteDoc(ctx, collection, id)
	metrics.RecordDocstoreOperation(s.name, "delete", err, start)
	return err
}

func (s *SurrealStore) deleteDoc(ctx context.Context, collection models.Kind, id string) error {
	_, err := s.execute(func() (any, error) {
		return surrealdb.Delete[map[string]any](ctx, s.db, surrealmodels.NewRecordID(string(collection), id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List returns all documents of a collection.
func (s *SurrealStore) List(ctx context.Context, collection models.Kind) ([][]byte, error) {
	start := time.Now()
	out, err := s.list(ctx, collection)
	metrics.RecordDocstoreOperation(s.name, "list", err, start)
	return out, err
}

func (s *SurrealStore) list(ctx context.Context, collection models.Kind) ([][]byte, error) {
	result, err := s.execute(func() (any, error) {
		return surrealdb.Select[[]map[string]any](ctx, s.db, string(collection))
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	records, ok := result.(*[]map[string]any)
	if !ok {
		return nil, fmt.Errorf("list %s: unexpected result type %T", collection, result)
	}

	out := make([][]byte, 0, len(*records))
	for _, record := range *records {
		id := recordIDString(record["id"])
		if id == "" {
			continue
		}
		data, err := marshalRecord(record, id)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// Subscribe registers a change listener fed by the live queries.
func (s *SurrealStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.bc.subscribe(ctx)
}

// Close kills the live queries, stops the readers and closes the connection.
func (s *SurrealStore) Close() error {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, id := range s.killIDs {
			if err := surrealdb.Kill(ctx, s.db, id); err != nil {
				logging.Warn().Err(err).Str("live_id", id).Msg("Failed to kill live query")
			}
		}

		s.cancel()
		s.wg.Wait()
		s.bc.closeAll()
		s.closeErr = s.db.Close(ctx)
	})
	return s.closeErr
}
