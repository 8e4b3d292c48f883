/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hivewatch/hivewatch/pkg/models"
)

// MemoryStore is an in-process Store implementation. It is the default for
// the dashboard and doubles as the test fixture for everything that takes a
// Store.
type MemoryStore struct {
	mu       sync.RWMutex
	actors   map[string]models.Actor
	messages map[string]models.Message
	replies  map[string]models.Reply
	edges    map[string][]string // message id -> reply ids, insertion order
	health   map[string]models.HealthRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		actors:   make(map[string]models.Actor),
		messages: make(map[string]models.Message),
		replies:  make(map[string]models.Reply),
		edges:    make(map[string][]string),
		health:   make(map[string]models.HealthRecord),
	}
}

func (s *MemoryStore) EnsureActor(_ context.Context, id string, attrs map[string]interface{}) (models.Actor, error) {
	if id == "" {
		return models.Actor{}, ErrActorRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureActorLocked(id, attrs), nil
}

func (s *MemoryStore) ensureActorLocked(id string, attrs map[string]interface{}) models.Actor {
	actor, ok := s.actors[id]
	if !ok {
		actor = models.Actor{ID: id}
	}

	if len(attrs) > 0 {
		if actor.Attributes == nil {
			actor.Attributes = make(map[string]interface{}, len(attrs))
		}

		for k, v := range attrs {
			actor.Attributes[k] = v
		}
	}

	s.actors[id] = actor

	return actor
}

func (s *MemoryStore) GetActor(_ context.Context, id string) (models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actor, ok := s.actors[id]
	if !ok {
		return models.Actor{}, ErrUnknownActor
	}

	return actor, nil
}

func (s *MemoryStore) RecordMessage(_ context.Context, name, tx, rx string) (models.Message, error) {
	if name == "" {
		return models.Message{}, ErrNameRequired
	}

	if tx == "" || rx == "" {
		return models.Message{}, ErrActorRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureActorLocked(tx, nil)
	s.ensureActorLocked(rx, nil)

	msg := models.Message{
		ID:        uuid.NewString(),
		Name:      name,
		TX:        tx,
		RX:        rx,
		CreatedAt: time.Now().UTC(),
	}

	s.messages[msg.ID] = msg

	return msg, nil
}

func (s *MemoryStore) RecordReply(_ context.Context, messageID, name, tx, rx string) (models.Reply, error) {
	if name == "" {
		return models.Reply{}, ErrNameRequired
	}

	if tx == "" || rx == "" {
		return models.Reply{}, ErrActorRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[messageID]; !ok {
		return models.Reply{}, ErrUnknownMessage
	}

	s.ensureActorLocked(tx, nil)
	s.ensureActorLocked(rx, nil)

	reply := models.Reply{
		ID:        uuid.NewString(),
		Name:      name,
		TX:        tx,
		RX:        rx,
		CreatedAt: time.Now().UTC(),
	}

	s.replies[reply.ID] = reply
	s.edges[messageID] = append(s.edges[messageID], reply.ID)

	return reply, nil
}

func (s *MemoryStore) Replies(_ context.Context, messageID string) ([]models.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.messages[messageID]; !ok {
		return nil, ErrUnknownMessage
	}

	ids := s.edges[messageID]
	out := make([]models.Reply, 0, len(ids))

	for _, id := range ids {
		out = append(out, s.replies[id])
	}

	return out, nil
}

func (s *MemoryStore) RegisterService(_ context.Context, service string, interval models.Duration) (models.HealthRecord, error) {
	if service == "" {
		return models.HealthRecord{}, ErrServiceRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.health[service]
	if !ok {
		record = models.HealthRecord{Service: service}
	}

	record.Enabled = true
	record.UpdateInterval = interval

	s.health[service] = record

	return record, nil
}

func (s *MemoryStore) MarkSeen(_ context.Context, service string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.health[service]
	if !ok {
		return ErrUnknownService
	}

	record.LastSeen = at
	s.health[service] = record

	return nil
}

func (s *MemoryStore) SetEnabled(_ context.Context, service string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.health[service]
	if !ok {
		return ErrUnknownService
	}

	record.Enabled = enabled
	s.health[service] = record

	return nil
}

func (s *MemoryStore) GetHealthRecord(_ context.Context, service string) (models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.health[service]
	if !ok {
		return models.HealthRecord{}, ErrUnknownService
	}

	return record, nil
}

func (s *MemoryStore) ListHealthRecords(_ context.Context) ([]models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HealthRecord, 0, len(s.health))
	for _, record := range s.health {
		out = append(out, record)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })

	return out, nil
}

func (*MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
