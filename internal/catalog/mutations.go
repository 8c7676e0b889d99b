// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/catalogus/internal/metrics"
	"github.com/tomtom215/catalogus/internal/models"
	"github.com/tomtom215/catalogus/internal/rating"
)

// AddSoftwareInput is the payload for AddSoftware. Rating fields are not
// accepted: new entries always start unrated.
type AddSoftwareInput struct {
	Name        string
	Objective   string
	AccessLink  string
	License     string
	ReleaseYear int
	Author      string
	Category    string
	Description string
}

// AddSoftware persists a new software entry and returns it. The snapshot
// updates once the document store echoes the create back.
func (s *Store) AddSoftware(ctx context.Context, in AddSoftwareInput) (models.SoftwareEntry, error) {
	start := time.Now()
	entry, err := s.addSoftware(ctx, in)
	metrics.RecordStoreOperation(string(models.KindSoftware), "add", err, start)
	return entry, err
}

func (s *Store) addSoftware(ctx context.Context, in AddSoftwareInput) (models.SoftwareEntry, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.SoftwareEntry{}, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if strings.TrimSpace(in.Author) == "" {
		return models.SoftwareEntry{}, &ValidationError{Field: "author", Reason: "must not be blank"}
	}

	entry := models.SoftwareEntry{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Objective:   in.Objective,
		AccessLink:  in.AccessLink,
		License:     in.License,
		ReleaseYear: in.ReleaseYear,
		Author:      in.Author,
		Category:    in.Category,
		Description: in.Description,
		Rating:      0,
		RatingCount: 0,
	}

	unlock := s.keys.lock(pendingKey(models.KindSoftware, entry.ID))
	defer unlock()

	if err := s.persistCreate(ctx, models.KindSoftware, entry.ID, entry); err != nil {
		return models.SoftwareEntry{}, err
	}
	return entry, nil
}

// RateSoftware folds one star rating into a software entry.
func (s *Store) RateSoftware(ctx context.Context, id string, stars int) (models.SoftwareEntry, error) {
	start := time.Now()
	entry, err := s.rateSoftware(ctx, id, stars)
	metrics.RecordStoreOperation(string(models.KindSoftware), "rate", err, start)
	return entry, err
}

func (s *Store) rateSoftware(ctx context.Context, id string, stars int) (models.SoftwareEntry, error) {
	unlock := s.keys.lock(pendingKey(models.KindSoftware, id))
	defer unlock()

	var entry models.SoftwareEntry
	if err := s.currentRecord(models.KindSoftware, id, &entry, func() (any, bool) {
		for _, e := range s.Software() {
			if e.ID == id {
				return e, true
			}
		}
		return nil, false
	}); err != nil {
		return models.SoftwareEntry{}, err
	}

	newRating, newCount, err := rating.Apply(entry.Rating, entry.RatingCount, stars)
	if err != nil {
		return models.SoftwareEntry{}, err
	}
	entry.Rating = newRating
	entry.RatingCount = newCount

	if err := s.persistUpdate(ctx, models.KindSoftware, id, entry); err != nil {
		return models.SoftwareEntry{}, err
	}
	return entry, nil
}

// RateClassification folds one star rating into a classification.
func (s *Store) RateClassification(ctx context.Context, id string, stars int) (models.Classification, error) {
	start := time.Now()
	entry, err := s.rateClassification(ctx, id, stars)
	metrics.RecordStoreOperation(string(models.KindClassifications), "rate", err, start)
	return entry, err
}

func (s *Store) rateClassification(ctx context.Context, id string, stars int) (models.Classification, error) {
	unlock := s.keys.lock(pendingKey(models.KindClassifications, id))
	defer unlock()

	var entry models.Classification
	if err := s.currentRecord(models.KindClassifications, id, &entry, func() (any, bool) {
		for _, c := range s.Classifications() {
			if c.ID == id {
				return c, true
			}
		}
		return nil, false
	}); err != nil {
		return models.Classification{}, err
	}

	newRating, newCount, err := rating.Apply(entry.Rating, entry.RatingCount, stars)
	if err != nil {
		return models.Classification{}, err
	}
	entry.Rating = newRating
	entry.RatingCount = newCount

	if err := s.persistUpdate(ctx, models.KindClassifications, id, entry); err != nil {
		return models.Classification{}, err
	}
	return entry, nil
}

// RateClassTopic folds one star rating into a class topic.
func (s *Store) RateClassTopic(ctx context.Context, id string, stars int) (models.ClassTopic, error) {
	start := time.Now()
	topic, err := s.rateClassTopic(ctx, id, stars)
	metrics.RecordStoreOperation(string(models.KindClassTopics), "rate", err, start)
	return topic, err
}

func (s *Store) rateClassTopic(ctx context.Context, id string, stars int) (models.ClassTopic, error) {
	unlock := s.keys.lock(pendingKey(models.KindClassTopics, id))
	defer unlock()

	var topic models.ClassTopic
	if err := s.currentRecord(models.KindClassTopics, id, &topic, func() (any, bool) {
		for _, t := range s.ClassTopics() {
			if t.ID == id {
				return t, true
			}
		}
		return nil, false
	}); err != nil {
		return models.ClassTopic{}, err
	}

	newRating, newCount, err := rating.Apply(topic.Rating, topic.RatingCount, stars)
	if err != nil {
		return models.ClassTopic{}, err
	}
	topic.Rating = newRating
	topic.RatingCount = newCount

	if err := s.persistUpdate(ctx, models.KindClassTopics, id, topic); err != nil {
		return models.ClassTopic{}, err
	}
	return topic, nil
}

// currentRecord decodes the freshest known state of a record into out: the
// overlay document when a persist is still awaiting its echo, the snapshot
// record otherwise. Must be called with the record's key lock held.
func (s *Store) currentRecord(kind models.Kind, id string, out any, fromSnapshot func() (any, bool)) error {
	if doc, deleted, ok := s.pendingDoc(kind, id); ok {
		if deleted {
			return ErrNotFound
		}
		if err := json.Unmarshal(doc, out); err != nil {
			return persistErr(err)
		}
		return nil
	}
	record, found := fromSnapshot()
	if !found {
		return ErrNotFound
	}
	// Round-trip through JSON to copy into the typed destination.
	data, err := json.Marshal(record)
	if err != nil {
		return persistErr(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return persistErr(err)
	}
	return nil
}

// AddForumPost persists a new forum post with a fresh id and timestamp.
func (s *Store) AddForumPost(ctx context.Context, title, content, author string) (models.ForumPost, error) {
	start := time.Now()
	post, err := s.addForumPost(ctx, title, content, author)
	metrics.RecordStoreOperation(string(models.KindForumPosts), "add", err, start)
	return post, err
}

func (s *Store) addForumPost(ctx context.Context, title, content, author string) (models.ForumPost, error) {
	if err := requireNonBlank(map[string]string{
		"title":   title,
		"content": content,
		"author":  author,
	}); err != nil {
		return models.ForumPost{}, err
	}

	post := models.ForumPost{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
		Author:  author,
		Date:    time.Now().UTC(),
		Replies: []models.ForumReply{},
	}

	unlock := s.keys.lock(pendingKey(models.KindForumPosts, post.ID))
	defer unlock()

	if err := s.persistCreate(ctx, models.KindForumPosts, post.ID, post); err != nil {
		return models.ForumPost{}, err
	}
	return post, nil
}

// AddReply appends a reply to a forum post.
func (s *Store) AddReply(ctx context.Context, postID, content, author string) (models.ForumPost, error) {
	start := time.Now()
	post, err := s.addReply(ctx, postID, content, author)
	metrics.RecordStoreOperation(string(models.KindForumPosts), "reply", err, start)
	return post, err
}

func (s *Store) addReply(ctx context.Context, postID, content, author string) (models.ForumPost, error) {
	if err := requireNonBlank(map[string]string{
		"content": content,
		"author":  author,
	}); err != nil {
		return models.ForumPost{}, err
	}

	unlock := s.keys.lock(pendingKey(models.KindForumPosts, postID))
	defer unlock()

	var post models.ForumPost
	if err := s.currentRecord(models.KindForumPosts, postID, &post, func() (any, bool) {
		for _, p := range s.ForumPosts() {
			if p.ID == postID {
				return p, true
			}
		}
		return nil, false
	}); err != nil {
		return models.ForumPost{}, err
	}

	post.Replies = append(post.Replies, models.ForumReply{
		ID:      uuid.NewString(),
		Content: content,
		Author:  author,
		Date:    time.Now().UTC(),
	})

	if err := s.persistUpdate(ctx, models.KindForumPosts, postID, post); err != nil {
		return models.ForumPost{}, err
	}
	return post, nil
}

// AddClassTopicInput is the payload for AddClassTopic. Rating fields and the
// creation date are assigned by the store.
type AddClassTopicInput struct {
	Title       string
	Image       string
	Description string
	Content     string
}

// AddClassTopic persists a new class topic. New topics start unrated with
// the creation date set to now.
func (s *Store) AddClassTopic(ctx context.Context, in AddClassTopicInput) (models.ClassTopic, error) {
	start := time.Now()
	topic, err := s.addClassTopic(ctx, in)
	metrics.RecordStoreOperation(string(models.KindClassTopics), "add", err, start)
	return topic, err
}

func (s *Store) addClassTopic(ctx context.Context, in AddClassTopicInput) (models.ClassTopic, error) {
	if err := requireNonBlank(map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"content":     in.Content,
	}); err != nil {
		return models.ClassTopic{}, err
	}

	topic := models.ClassTopic{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Image:       in.Image,
		Description: in.Description,
		Content:     in.Content,
		Rating:      0,
		RatingCount: 0,
		CreatedDate: time.Now().UTC(),
	}

	unlock := s.keys.lock(pendingKey(models.KindClassTopics, topic.ID))
	defer unlock()

	if err := s.persistCreate(ctx, models.KindClassTopics, topic.ID, topic); err != nil {
		return models.ClassTopic{}, err
	}
	return topic, nil
}

// UpdateClassTopicInput carries the optional fields of a topic update. Nil
// fields are left unchanged. Rating fields are only mutable through
// RateClassTopic.
type UpdateClassTopicInput struct {
	Title       *string
	Image       *string
	Description *string
	Content     *string
}

// UpdateClassTopic applies a partial update to a class topic.
func (s *Store) UpdateClassTopic(ctx context.Context, id string, in UpdateClassTopicInput) (models.ClassTopic, error) {
	start := time.Now()
	topic, err := s.updateClassTopic(ctx, id, in)
	metrics.RecordStoreOperation(string(models.KindClassTopics), "update", err, start)
	return topic, err
}

func (s *Store) updateClassTopic(ctx context.Context, id string, in UpdateClassTopicInput) (models.ClassTopic, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return models.ClassTopic{}, &ValidationError{Field: "title", Reason: "must not be blank"}
	}

	unlock := s.keys.lock(pendingKey(models.KindClassTopics, id))
	defer unlock()

	var topic models.ClassTopic
	if err := s.currentRecord(models.KindClassTopics, id, &topic, func() (any, bool) {
		for _, t := range s.ClassTopics() {
			if t.ID == id {
				return t, true
			}
		}
		return nil, false
	}); err != nil {
		return models.ClassTopic{}, err
	}

	if in.Title != nil {
		topic.Title = *in.Title
	}
	if in.Image != nil {
		topic.Image = *in.Image
	}
	if in.Description != nil {
		topic.Description = *in.Description
	}
	if in.Content != nil {
		topic.Content = *in.Content
	}

	if err := s.persistUpdate(ctx, models.KindClassTopics, id, topic); err != nil {
		return models.ClassTopic{}, err
	}
	return topic, nil
}

// RemoveClassTopic deletes a class topic.
func (s *Store) RemoveClassTopic(ctx context.Context, id string) error {
	start := time.Now()
	err := s.removeClassTopic(ctx, id)
	metrics.RecordStoreOperation(string(models.KindClassTopics), "remove", err, start)
	return err
}

func (s *Store) removeClassTopic(ctx context.Context, id string) error {
	unlock := s.keys.lock(pendingKey(models.KindClassTopics, id))
	defer unlock()

	if _, deleted, ok := s.pendingDoc(models.KindClassTopics, id); ok && deleted {
		return ErrNotFound
	} else if !ok {
		found := false
		for _, t := range s.ClassTopics() {
			if t.ID == id {
				found = true
				break
			}
		}
		if !found {
			return ErrNotFound
		}
	}

	if err := s.ds.Delete(ctx, models.KindClassTopics, id); err != nil {
		return persistErr(err)
	}
	s.recordPending(models.KindClassTopics, id, nil, true)
	return nil
}

// persistCreate writes a new record and installs its overlay entry.
func (s *Store) persistCreate(ctx context.Context, kind models.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return persistErr(err)
	}
	if err := s.ds.Create(ctx, kind, id, doc); err != nil {
		return persistErr(err)
	}
	s.recordPending(kind, id, data, false)
	return nil
}

// persistUpdate writes a record and installs its overlay entry.
func (s *Store) persistUpdate(ctx context.Context, kind models.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return persistErr(err)
	}
	if err := s.ds.Update(ctx, kind, id, doc); err != nil {
		return persistErr(err)
	}
	s.recordPending(kind, id, data, false)
	return nil
}

// requireNonBlank validates that every field contains a non-whitespace
// character. Field order in the error is deterministic.
func requireNonBlank(fields map[string]string) error {
	for _, name := range []string{"title", "description", "content", "author"} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Field: name, Reason: "must not be blank"}
		}
	}
	return nil
}
