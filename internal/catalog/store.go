// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

// Package catalog implements the reactive catalog store.
//
// The store keeps one in-memory snapshot per collection and a set of
// subscribers that receive full-collection snapshots on every change. The
// backing document store is authoritative: a mutation persists first and the
// snapshot only changes when the store's change subscription echoes the
// mutation back. Readers therefore never observe state the database has not
// accepted.
//
// Mutations on the same record are serialized by a per-record lock held
// across the whole read-compute-persist round trip, and each record's last
// persisted-but-not-yet-echoed state is kept in an overlay so a second
// mutation observes the first one's effect even before its echo arrives.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/catalogus/internal/docstore"
	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/metrics"
	"github.com/tomtom215/catalogus/internal/models"
	"github.com/tomtom215/catalogus/internal/stats"
)

// Snapshot is one full-collection state delivered to subscribers. Items is a
// fresh copy typed per collection: []models.SoftwareEntry,
// []models.Classification, []models.ForumPost or []models.ClassTopic.
type Snapshot struct {
	Kind  models.Kind `json:"collection"`
	Items any         `json:"items"`
}

// pendingState is the overlay entry for a record whose persisted state has
// not yet been echoed back by the document store.
type pendingState struct {
	doc      []byte
	deleted  bool
	inflight int
}

// Store is the reactive catalog store.
type Store struct {
	ds  docstore.Store
	log zerolog.Logger

	mu              sync.RWMutex
	software        []models.SoftwareEntry
	classifications []models.Classification
	forumPosts      []models.ForumPost
	classTopics     []models.ClassTopic

	keys *keyedMutex

	pendingMu sync.Mutex
	pending   map[string]*pendingState

	subsMu    sync.Mutex
	subs      map[models.Kind]map[uint64]chan Snapshot
	nextSubID uint64
	closed    bool
}

// New builds a Store and loads the initial snapshots from the document
// store. The change pump does not run until Serve is called.
func New(ctx context.Context, ds docstore.Store) (*Store, error) {
	s := &Store{
		ds:      ds,
		log:     logging.WithComponent("catalog"),
		keys:    newKeyedMutex(),
		pending: make(map[string]*pendingState),
		subs:    make(map[models.Kind]map[uint64]chan Snapshot),
	}
	for _, kind := range models.Kinds {
		s.subs[kind] = make(map[uint64]chan Snapshot)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads every collection and installs sorted snapshots.
func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range models.Kinds {
		docs, err := s.ds.List(ctx, kind)
		if err != nil {
			return persistErr(err)
		}
		if err := s.replaceLocked(kind, docs); err != nil {
			return err
		}
	}

	s.log.Info().
		Int("software", len(s.software)).
		Int("classifications", len(s.classifications)).
		Int("forum_posts", len(s.forumPosts)).
		Int("class_topics", len(s.classTopics)).
		Msg("Catalog snapshots loaded")
	return nil
}

// replaceLocked decodes raw documents into the collection slice and sorts it.
func (s *Store) replaceLocked(kind models.Kind, docs [][]byte) error {
	switch kind {
	case models.KindSoftware:
		s.software = s.software[:0]
		for _, raw := range docs {
			var e models.SoftwareEntry
			if err := json.Unmarshal(raw, &e); err != nil {
				return persistErr(err)
			}
			s.software = append(s.software, e)
		}
	case models.KindClassifications:
		s.classifications = s.classifications[:0]
		for _, raw := range docs {
			var c models.Classification
			if err := json.Unmarshal(raw, &c); err != nil {
				return persistErr(err)
			}
			s.classifications = append(s.classifications, c)
		}
	case models.KindForumPosts:
		s.forumPosts = s.forumPosts[:0]
		for _, raw := range docs {
			var p models.ForumPost
			if err := json.Unmarshal(raw, &p); err != nil {
				return persistErr(err)
			}
			s.forumPosts = append(s.forumPosts, p)
		}
	case models.KindClassTopics:
		s.classTopics = s.classTopics[:0]
		for _, raw := range docs {
			var t models.ClassTopic
			if err := json.Unmarshal(raw, &t); err != nil {
				return persistErr(err)
			}
			s.classTopics = append(s.classTopics, t)
		}
	}
	s.sortLocked(kind)
	return nil
}

// sortLocked applies the collection's declared order.
func (s *Store) sortLocked(kind models.Kind) {
	switch kind {
	case models.KindSoftware:
		sort.SliceStable(s.software, func(i, j int) bool {
			if s.software[i].Name != s.software[j].Name {
				return s.software[i].Name < s.software[j].Name
			}
			return s.software[i].ID < s.software[j].ID
		})
	case models.KindClassifications:
		sort.SliceStable(s.classifications, func(i, j int) bool {
			if s.classifications[i].Name != s.classifications[j].Name {
				return s.classifications[i].Name < s.classifications[j].Name
			}
			return s.classifications[i].ID < s.classifications[j].ID
		})
	case models.KindForumPosts:
		sort.SliceStable(s.forumPosts, func(i, j int) bool {
			if !s.forumPosts[i].Date.Equal(s.forumPosts[j].Date) {
				return s.forumPosts[i].Date.After(s.forumPosts[j].Date)
			}
			return s.forumPosts[i].ID > s.forumPosts[j].ID
		})
	case models.KindClassTopics:
		sort.SliceStable(s.classTopics, func(i, j int) bool {
			if !s.classTopics[i].CreatedDate.Equal(s.classTopics[j].CreatedDate) {
				return s.classTopics[i].CreatedDate.After(s.classTopics[j].CreatedDate)
			}
			return s.classTopics[i].ID > s.classTopics[j].ID
		})
	}
}

// Serve runs the change pump: it subscribes to the document store and folds
// every authoritative change into the snapshots until ctx is canceled.
// It implements suture.Service.
func (s *Store) Serve(ctx context.Context) error {
	events, err := s.ds.Subscribe(ctx)
	if err != nil {
		return persistErr(err)
	}

	// Relist after subscribing so writes committed between the initial load
	// (or a previous pump incarnation) and this subscription are not missed.
	if err := s.load(ctx); err != nil {
		return err
	}
	for _, kind := range models.Kinds {
		s.broadcast(kind)
	}

	s.log.Info().Msg("Catalog change pump started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return errSubscriptionClosed
			}
			s.applyEvent(ev)
		}
	}
}

// String identifies the service in supervisor logs.
func (s *Store) String() string {
	return "catalog-store"
}

// applyEvent folds one authoritative change into the snapshot, settles the
// pending overlay and notifies subscribers.
func (s *Store) applyEvent(ev docstore.ChangeEvent) {
	if !ev.Collection.Valid() {
		s.log.Warn().Str("collection", string(ev.Collection)).Msg("Ignoring change for unknown collection")
		return
	}

	metrics.DocstoreChangeEvents.WithLabelValues(string(ev.Collection), string(ev.Action)).Inc()

	s.mu.Lock()
	var err error
	switch ev.Action {
	case docstore.ActionCreate, docstore.ActionUpdate:
		err = s.upsertLocked(ev)
	case docstore.ActionDelete:
		s.removeLocked(ev.Collection, ev.ID)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).
			Str("collection", string(ev.Collection)).
			Str("id", ev.ID).
			Msg("Dropping undecodable change event")
		return
	}

	s.settlePending(ev.Collection, ev.ID)
	s.broadcast(ev.Collection)
}

func (s *Store) upsertLocked(ev docstore.ChangeEvent) error {
	switch ev.Collection {
	case models.KindSoftware:
		var e models.SoftwareEntry
		if err := json.Unmarshal(ev.Data, &e); err != nil {
			return err
		}
		s.software = upsert(s.software, e, func(x models.SoftwareEntry) string { return x.ID })
	case models.KindClassifications:
		var c models.Classification
		if err := json.Unmarshal(ev.Data, &c); err != nil {
			return err
		}
		s.classifications = upsert(s.classifications, c, func(x models.Classification) string { return x.ID })
	case models.KindForumPosts:
		var p models.ForumPost
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return err
		}
		s.forumPosts = upsert(s.forumPosts, p, func(x models.ForumPost) string { return x.ID })
	case models.KindClassTopics:
		var t models.ClassTopic
		if err := json.Unmarshal(ev.Data, &t); err != nil {
			return err
		}
		s.classTopics = upsert(s.classTopics, t, func(x models.ClassTopic) string { return x.ID })
	}
	s.sortLocked(ev.Collection)
	return nil
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	key := id(item)
	for i := range items {
		if id(items[i]) == key {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func (s *Store) removeLocked(kind models.Kind, id string) {
	switch kind {
	case models.KindSoftware:
		s.software = remove(s.software, id, func(x models.SoftwareEntry) string { return x.ID })
	case models.KindClassifications:
		s.classifications = remove(s.classifications, id, func(x models.Classification) string { return x.ID })
	case models.KindForumPosts:
		s.forumPosts = remove(s.forumPosts, id, func(x models.ForumPost) string { return x.ID })
	case models.KindClassTopics:
		s.classTopics = remove(s.classTopics, id, func(x models.ClassTopic) string { return x.ID })
	}
}

func remove[T any](items []T, id string, key func(T) string) []T {
	for i := range items {
		if key(items[i]) == id {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}

// settlePending decrements the in-flight count for a record and drops the
// overlay entry once every persisted mutation has echoed back.
func (s *Store) settlePending(kind models.Kind, id string) {
	key := pendingKey(kind, id)

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, ok := s.pending[key]
	if !ok {
		return
	}
	p.inflight--
	if p.inflight <= 0 {
		delete(s.pending, key)
	}
}

func pendingKey(kind models.Kind, id string) string {
	return string(kind) + "/" + id
}

// recordPending stores the just-persisted state of a record so later
// mutations under the same key observe it before the echo arrives.
func (s *Store) recordPending(kind models.Kind, id string, doc []byte, deleted bool) {
	key := pendingKey(kind, id)

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, ok := s.pending[key]
	if !ok {
		p = &pendingState{}
		s.pending[key] = p
	}
	p.doc = doc
	p.deleted = deleted
	p.inflight++
}

// pendingDoc returns the overlay state for a record, if any.
func (s *Store) pendingDoc(kind models.Kind, id string) (doc []byte, deleted, ok bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, exists := s.pending[pendingKey(kind, id)]
	if !exists {
		return nil, false, false
	}
	return p.doc, p.deleted, true
}

// Subscribe registers a snapshot listener for one collection. The current
// snapshot is delivered immediately; afterwards a new snapshot arrives for
// every change. The returned cancel function must be called to release the
// subscription. Slow subscribers are coalesced: when a subscriber's buffer
// is full the oldest snapshot is dropped in favor of the newest, which is
// safe because each snapshot fully replaces its predecessor.
func (s *Store) Subscribe(kind models.Kind) (<-chan Snapshot, func(), error) {
	if !kind.Valid() {
		return nil, nil, &ValidationError{Field: "collection", Reason: "unknown collection " + string(kind)}
	}

	s.subsMu.Lock()
	if s.closed {
		s.subsMu.Unlock()
		return nil, nil, ErrClosed
	}
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Snapshot, 8)
	s.subs[kind][id] = ch
	s.subsMu.Unlock()

	metrics.Subscribers.WithLabelValues(string(kind)).Inc()

	// BehaviorSubject semantics: emit the current value on subscription.
	ch <- s.snapshot(kind)

	cancel := func() {
		s.subsMu.Lock()
		if _, ok := s.subs[kind][id]; ok {
			delete(s.subs[kind], id)
			close(ch)
			metrics.Subscribers.WithLabelValues(string(kind)).Dec()
		}
		s.subsMu.Unlock()
	}
	return ch, cancel, nil
}

// broadcast delivers the current snapshot of kind to all its subscribers.
func (s *Store) broadcast(kind models.Kind) {
	snap := s.snapshot(kind)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}

	for _, ch := range s.subs[kind] {
		select {
		case ch <- snap:
		default:
			// Buffer full: drop the oldest snapshot, then deliver the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
	metrics.SnapshotBroadcasts.WithLabelValues(string(kind)).Inc()
}

// snapshot builds a copied Snapshot for one collection.
func (s *Store) snapshot(kind models.Kind) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case models.KindSoftware:
		return Snapshot{Kind: kind, Items: copySlice(s.software)}
	case models.KindClassifications:
		return Snapshot{Kind: kind, Items: copySlice(s.classifications)}
	case models.KindForumPosts:
		return Snapshot{Kind: kind, Items: copySlice(s.forumPosts)}
	default:
		return Snapshot{Kind: kind, Items: copySlice(s.classTopics)}
	}
}

func copySlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Software returns a copy of the software snapshot.
func (s *Store) Software() []models.SoftwareEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.software)
}

// Classifications returns a copy of the classifications snapshot.
func (s *Store) Classifications() []models.Classification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.classifications)
}

// ForumPosts returns a copy of the forum posts snapshot.
func (s *Store) ForumPosts() []models.ForumPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.forumPosts)
}

// ClassTopics returns a copy of the class topics snapshot.
func (s *Store) ClassTopics() []models.ClassTopic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.classTopics)
}

// Stats computes aggregate statistics over one consistent snapshot of all
// collections.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	snap := stats.Snapshot{
		Software:        copySlice(s.software),
		Classifications: copySlice(s.classifications),
		ForumPosts:      copySlice(s.forumPosts),
		ClassTopics:     copySlice(s.classTopics),
	}
	s.mu.RUnlock()

	return stats.Compute(snap)
}

// Close detaches all subscribers. The document store is closed by its owner.
func (s *Store) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for kind, subs := range s.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
		metrics.Subscribers.WithLabelValues(string(kind)).Set(0)
	}
}
