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

package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
	"github.com/hivewatch/hivewatch/pkg/visibility"
)

type fakeVisibility struct {
	visible atomic.Bool
}

func (f *fakeVisibility) Visible() bool { return f.visible.Load() }

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) Chan() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (*fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) Ticker(_ time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)

	return t
}

func (c *fakeClock) liveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := 0

	for _, t := range c.tickers {
		if !t.isStopped() {
			live++
		}
	}

	return live
}

func (c *fakeClock) latest() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tickers) == 0 {
		return nil
	}

	return c.tickers[len(c.tickers)-1]
}

type harness struct {
	sched  *Scheduler
	events chan visibility.Event
	vis    *fakeVisibility
	clock  *fakeClock
	probes chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		events: make(chan visibility.Event),
		vis:    &fakeVisibility{},
		clock:  &fakeClock{},
		probes: make(chan struct{}, 16),
	}

	probe := func(_ context.Context) {
		h.probes <- struct{}{}
	}

	sched, err := New(&Config{}, h.events, h.vis, probe, h.clock, logger.NewTestLogger())
	require.NoError(t, err)

	h.sched = sched

	go func() {
		_ = sched.Run(context.Background())
	}()

	t.Cleanup(sched.Stop)

	return h
}

func (h *harness) show(t *testing.T) {
	t.Helper()

	h.vis.visible.Store(true)
	h.events <- visibility.Event{Kind: visibility.BecameVisible, At: time.Now()}
}

func (h *harness) hide(t *testing.T) {
	t.Helper()

	h.vis.visible.Store(false)
	h.events <- visibility.Event{Kind: visibility.BecameHidden, At: time.Now()}
}

func (h *harness) waitProbe(t *testing.T) {
	t.Helper()

	select {
	case <-h.probes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for probe")
	}
}

func (h *harness) assertNoProbe(t *testing.T) {
	t.Helper()

	select {
	case <-h.probes:
		t.Fatal("unexpected probe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduler_RequiresProbeAndVisibility(t *testing.T) {
	_, err := New(&Config{}, nil, &fakeVisibility{}, nil, nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrProbeFuncRequired)

	_, err = New(&Config{}, nil, nil, func(context.Context) {}, nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrVisibilityRequired)
}

func TestScheduler_VisibleActivatesWithImmediateProbe(t *testing.T) {
	h := newHarness(t)

	h.show(t)
	h.waitProbe(t)

	require.Eventually(t, func() bool { return h.clock.liveTickers() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestScheduler_SingleTimerAcrossFlaps(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 5; i++ {
		h.show(t)
		h.waitProbe(t)

		assert.LessOrEqual(t, h.clock.liveTickers(), 1)

		h.hide(t)

		require.Eventually(t, func() bool { return h.clock.liveTickers() == 0 },
			time.Second, 5*time.Millisecond)
	}

	h.sched.Stop()
	assert.Zero(t, h.clock.liveTickers())
}

func TestScheduler_HideShowBeforePendingTick(t *testing.T) {
	h := newHarness(t)

	h.show(t)
	h.waitProbe(t)

	stale := h.clock.latest()
	require.NotNil(t, stale)

	h.hide(t)

	require.Eventually(t, stale.isStopped, time.Second, 5*time.Millisecond)

	// A tick that was already pending when the region hid must not fire.
	stale.ch <- time.Now()

	h.show(t)
	h.waitProbe(t)

	// Only the activation probe ran; the stale tick produced nothing.
	h.assertNoProbe(t)
}

func TestScheduler_TickProbes(t *testing.T) {
	h := newHarness(t)

	h.show(t)
	h.waitProbe(t)

	ticker := h.clock.latest()
	require.NotNil(t, ticker)

	ticker.ch <- time.Now()
	h.waitProbe(t)
}

func TestScheduler_DoubleCheckAbortsProbe(t *testing.T) {
	h := newHarness(t)

	h.show(t)
	h.waitProbe(t)

	// Visibility lost between the tick being scheduled and executing.
	h.vis.visible.Store(false)

	ticker := h.clock.latest()
	require.NotNil(t, ticker)
	ticker.ch <- time.Now()

	h.assertNoProbe(t)
}

func TestScheduler_ManualRefreshWhileActive(t *testing.T) {
	h := newHarness(t)

	h.show(t)
	h.waitProbe(t)

	ticker := h.clock.latest()

	h.sched.Refresh()
	h.waitProbe(t)

	// Out-of-band probe leaves the timer untouched.
	assert.False(t, ticker.isStopped())
	assert.Equal(t, 1, h.clock.liveTickers())
	assert.Same(t, ticker, h.clock.latest())
}

func TestScheduler_ManualRefreshWhileIdleActivates(t *testing.T) {
	h := newHarness(t)

	h.vis.visible.Store(true)

	h.sched.Refresh()
	h.waitProbe(t)

	require.Eventually(t, func() bool { return h.clock.liveTickers() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestScheduler_RefreshWhileHiddenSkipsProbe(t *testing.T) {
	h := newHarness(t)

	h.sched.Refresh()

	h.assertNoProbe(t)

	// The suppressed probe must not arm a timer either.
	assert.Zero(t, h.clock.liveTickers())
}

func TestScheduler_RefreshWhileHiddenThenShowProbesImmediately(t *testing.T) {
	h := newHarness(t)

	h.sched.Refresh()
	h.assertNoProbe(t)

	// The scheduler stayed Idle, so becoming visible still performs the
	// immediate activation probe rather than waiting out a full period.
	h.show(t)
	h.waitProbe(t)

	require.Eventually(t, func() bool { return h.clock.liveTickers() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Minute, time.Duration(cfg.PollInterval))

	cfg = &Config{PollInterval: models.Duration(15 * time.Second)}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15*time.Second, time.Duration(cfg.PollInterval))
}
