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

// Package visibility tracks whether the dashboard's display region is
// on-screen and emits enter/leave transitions for the poll scheduler.
package visibility

import (
	"sync"
	"time"

	"github.com/hivewatch/hivewatch/pkg/logger"
)

// DefaultThreshold is the fraction of the region's area that must be
// on-screen for the region to count as visible.
const DefaultThreshold = 0.10

// EventKind identifies a visibility transition.
type EventKind int

const (
	// BecameVisible fires when the region's visible fraction crosses the
	// threshold from below.
	BecameVisible EventKind = iota
	// BecameHidden fires when the fraction drops below the threshold.
	BecameHidden
)

func (k EventKind) String() string {
	if k == BecameVisible {
		return "visible"
	}

	return "hidden"
}

// Event is a single visibility transition.
type Event struct {
	Kind EventKind
	At   time.Time
}

const eventBuffer = 16

// Tracker observes a display region and reports binary visibility
// transitions. It never fetches or renders; consumers subscribe to Events.
type Tracker struct {
	mu        sync.Mutex
	threshold float64
	visible   bool
	events    chan Event
	logger    logger.Logger
}

// New creates a tracker with the default 10% intersection threshold.
func New(log logger.Logger) *Tracker {
	return NewWithThreshold(DefaultThreshold, log)
}

// NewWithThreshold creates a tracker with a custom intersection threshold.
func NewWithThreshold(threshold float64, log logger.Logger) *Tracker {
	return &Tracker{
		threshold: threshold,
		events:    make(chan Event, eventBuffer),
		logger:    log,
	}
}

// Events is the transition stream consumed by the scheduler.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// Observe reports the currently visible area of the region against its total
// area, emitting a transition event when the threshold is crossed.
func (t *Tracker) Observe(visibleArea, totalArea float64) {
	ratio := 0.0
	if totalArea > 0 {
		ratio = visibleArea / totalArea
	}

	t.setVisible(ratio >= t.threshold)
}

// Show reports the region as fully on-screen (e.g. terminal focus gained).
func (t *Tracker) Show() {
	t.setVisible(true)
}

// Hide reports the region as fully off-screen (e.g. terminal focus lost).
func (t *Tracker) Hide() {
	t.setVisible(false)
}

// Visible reports the current state. The scheduler re-checks this
// immediately before every probe.
func (t *Tracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.visible
}

func (t *Tracker) setVisible(visible bool) {
	t.mu.Lock()

	if visible == t.visible {
		t.mu.Unlock()

		return
	}

	t.visible = visible
	t.mu.Unlock()

	kind := BecameHidden
	if visible {
		kind = BecameVisible
	}

	select {
	case t.events <- Event{Kind: kind, At: time.Now()}:
	default:
		// A full buffer means the consumer is gone; dropping the oldest
		// transition would desync state, so drop the newest and warn.
		if t.logger != nil {
			t.logger.Warn().Str("transition", kind.String()).Msg("Visibility event dropped, consumer not keeping up")
		}
	}
}
