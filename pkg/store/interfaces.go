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

// Package store persists the actor/message/reply graph and per-service
// health records. The in-memory implementation is the default; the Postgres
// implementation backs deployments that need durability.
package store

import (
	"context"
	"time"

	"github.com/hivewatch/hivewatch/pkg/models"
)

// Store is the persistence surface for the hub graph and health records.
//
// Actors are created implicitly on first reference: recording a message or
// reply ensures both endpoints exist. Replies always hang off an existing
// message via a message_replies edge; the typed operations make it
// impossible to connect two messages or two replies.
type Store interface {
	// EnsureActor creates the actor if absent and merges the given
	// attributes into it.
	EnsureActor(ctx context.Context, id string, attrs map[string]interface{}) (models.Actor, error)
	GetActor(ctx context.Context, id string) (models.Actor, error)

	// RecordMessage stores a named message from tx to rx, implicitly
	// creating either actor on first reference.
	RecordMessage(ctx context.Context, name, tx, rx string) (models.Message, error)

	// RecordReply stores a reply to an existing message and creates the
	// message_replies edge connecting them.
	RecordReply(ctx context.Context, messageID, name, tx, rx string) (models.Reply, error)

	// Replies returns the replies attached to a message, oldest first.
	Replies(ctx context.Context, messageID string) ([]models.Reply, error)

	// RegisterService creates the health record for a service. Registering
	// an already-known service re-enables it and updates its interval.
	RegisterService(ctx context.Context, service string, interval models.Duration) (models.HealthRecord, error)

	// MarkSeen updates last_seen after a successful probe.
	MarkSeen(ctx context.Context, service string, at time.Time) error

	// SetEnabled toggles polling for a service. Records are never deleted;
	// disabling is the soft-delete mechanism.
	SetEnabled(ctx context.Context, service string, enabled bool) error

	GetHealthRecord(ctx context.Context, service string) (models.HealthRecord, error)
	ListHealthRecords(ctx context.Context) ([]models.HealthRecord, error)

	Close() error
}
