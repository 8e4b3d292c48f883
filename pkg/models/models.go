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

// Package models defines the hub data model: actors exchanging messages and
// replies, and the per-service health records the dashboard maintains.
package models

import "time"

// Actor is an opaque identity participating in message exchange. Actors are
// schema-free: beyond the identifier, arbitrary attributes are permitted.
// Actors are created implicitly on first reference and never destroyed.
type Actor struct {
	ID         string                 `json:"id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Message is a directed communication from one actor (TX) to another (RX).
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TX        string    `json:"tx"`
	RX        string    `json:"rx"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is structurally identical to Message but semantically a response.
// A Reply is attached to exactly one Message via a MessageReply edge.
type Reply struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TX        string    `json:"tx"`
	RX        string    `json:"rx"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageReply is the directed relation edge connecting a Message to one of
// its Replies. The origin is always a Message and the destination always a
// Reply; the store enforces that an edge never connects two messages or two
// replies.
type MessageReply struct {
	MessageID string `json:"in"`
	ReplyID   string `json:"out"`
}

// HealthRecord tracks monitoring state for a single service. Records are
// created when a service is first registered, updated on every successful
// probe, and never implicitly deleted; Enabled is the soft-delete mechanism.
type HealthRecord struct {
	Service        string    `json:"service"`
	LastSeen       time.Time `json:"last_seen"`
	Enabled        bool      `json:"enabled"`
	UpdateInterval Duration  `json:"update_interval"`
}
