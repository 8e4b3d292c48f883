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

package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivewatch/hivewatch/pkg/logger"
)

func drain(t *testing.T, tr *Tracker) []Event {
	t.Helper()

	var events []Event

	for {
		select {
		case ev := <-tr.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestTracker_ThresholdCrossing(t *testing.T) {
	tr := New(logger.NewTestLogger())

	// 5% of the region on-screen: still hidden.
	tr.Observe(5, 100)
	assert.Empty(t, drain(t, tr))
	assert.False(t, tr.Visible())

	// 10% crosses the threshold.
	tr.Observe(10, 100)

	events := drain(t, tr)
	require.Len(t, events, 1)
	assert.Equal(t, BecameVisible, events[0].Kind)
	assert.True(t, tr.Visible())

	// Dropping back below emits the hide transition.
	tr.Observe(9, 100)

	events = drain(t, tr)
	require.Len(t, events, 1)
	assert.Equal(t, BecameHidden, events[0].Kind)
	assert.False(t, tr.Visible())
}

func TestTracker_NoDuplicateTransitions(t *testing.T) {
	tr := New(logger.NewTestLogger())

	tr.Show()
	tr.Show()
	tr.Observe(100, 100)

	events := drain(t, tr)
	require.Len(t, events, 1)
	assert.Equal(t, BecameVisible, events[0].Kind)
}

func TestTracker_HideBeforeFirstShowEmitsNothing(t *testing.T) {
	tr := New(logger.NewTestLogger())

	// The tracker starts hidden; a redundant hide is not a transition, so
	// a never-shown region can never trigger the scheduler.
	tr.Hide()

	assert.Empty(t, drain(t, tr))
	assert.False(t, tr.Visible())
}

func TestTracker_ZeroAreaIsHidden(t *testing.T) {
	tr := New(logger.NewTestLogger())

	tr.Show()
	drain(t, tr)

	tr.Observe(0, 0)

	events := drain(t, tr)
	require.Len(t, events, 1)
	assert.Equal(t, BecameHidden, events[0].Kind)
}

func TestTracker_FlapSequence(t *testing.T) {
	tr := New(logger.NewTestLogger())

	for i := 0; i < 4; i++ {
		tr.Show()
		tr.Hide()
	}

	events := drain(t, tr)
	require.Len(t, events, 8)

	for i, ev := range events {
		if i%2 == 0 {
			assert.Equal(t, BecameVisible, ev.Kind)
		} else {
			assert.Equal(t, BecameHidden, ev.Kind)
		}
	}
}
