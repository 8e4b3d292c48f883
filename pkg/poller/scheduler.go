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

// Package poller schedules health probes against the hub, gated on the
// visibility of the display region.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/hivewatch/hivewatch/pkg/logger"
	"github.com/hivewatch/hivewatch/pkg/models"
	"github.com/hivewatch/hivewatch/pkg/visibility"
)

const defaultPollInterval = 60 * time.Second

// ProbeFunc performs one health probe: fetch, aggregate, render. Probes run
// on the scheduler goroutine; the fetch inside is the only suspension point.
type ProbeFunc func(ctx context.Context)

// Config represents scheduler configuration.
type Config struct {
	PollInterval models.Duration `json:"poll_interval"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	return nil
}

// Scheduler is a two-state machine: Idle (no timer) and Active (one
// repeating timer). Visibility transitions drive the state changes and a
// manual refresh triggers an out-of-band probe. The timer handle is private;
// at most one timer is alive at any instant.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	vis      Visibility
	probe    ProbeFunc
	events   <-chan visibility.Event
	refresh  chan struct{}
	done     chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    logger.Logger

	mu     sync.Mutex
	ticker Ticker // nil while Idle
}

// New creates a scheduler consuming the given visibility event stream.
// A nil clock defaults to the real clock.
func New(cfg *Config, events <-chan visibility.Event, vis Visibility, probe ProbeFunc, clock Clock, log logger.Logger) (*Scheduler, error) {
	if probe == nil {
		return nil, ErrProbeFuncRequired
	}

	if vis == nil {
		return nil, ErrVisibilityRequired
	}

	if clock == nil {
		clock = realClock{}
	}

	interval := time.Duration(cfg.PollInterval)
	if interval == 0 {
		interval = defaultPollInterval
	}

	return &Scheduler{
		interval: interval,
		clock:    clock,
		vis:      vis,
		probe:    probe,
		events:   events,
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		logger:   log,
	}, nil
}

// Refresh requests an out-of-band probe. While Active the timer's period is
// unchanged; while Idle the request activates the scheduler. Coalesces when
// a refresh is already pending.
func (s *Scheduler) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Stop terminates the run loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.wg.Wait()
}

// Run consumes visibility transitions, refresh requests, and timer ticks
// until the context is canceled or Stop is called. All probes execute on
// this goroutine.
func (s *Scheduler) Run(ctx context.Context) error {
	s.wg.Add(1)
	defer s.wg.Done()
	defer s.stopTicker()

	s.logger.Info().Dur("interval", s.interval).Msg("Poll scheduler started")

	for {
		var tickCh <-chan time.Time

		s.mu.Lock()
		if s.ticker != nil {
			tickCh = s.ticker.Chan()
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case ev, ok := <-s.events:
			if !ok {
				s.events = nil

				continue
			}

			s.handleTransition(ctx, ev)
		case <-s.refresh:
			s.handleRefresh(ctx)
		case <-tickCh:
			s.executeProbe(ctx)
		}
	}
}

func (s *Scheduler) handleTransition(ctx context.Context, ev visibility.Event) {
	switch ev.Kind {
	case visibility.BecameVisible:
		if s.active() {
			return
		}

		s.logger.Debug().Msg("Display region visible, activating")
		s.executeProbe(ctx)
		s.armTicker()
	case visibility.BecameHidden:
		s.logger.Debug().Msg("Display region hidden, going idle")
		s.stopTicker()
	}
}

func (s *Scheduler) handleRefresh(ctx context.Context) {
	wasIdle := !s.active()

	// A refresh while hidden must leave the scheduler Idle: arming here
	// would suppress the immediate probe of the next visible transition.
	if !s.executeProbe(ctx) {
		return
	}

	if wasIdle {
		s.armTicker()
	}
}

// executeProbe runs one probe, re-verifying visibility immediately before
// the network call, and reports whether the probe ran. A probe initiated
// just before a hide transition is aborted silently: no error, no render.
func (s *Scheduler) executeProbe(ctx context.Context) bool {
	if !s.vis.Visible() {
		s.logger.Debug().Msg("Probe skipped, display region no longer visible")

		return false
	}

	s.probe(ctx)

	return true
}

func (s *Scheduler) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ticker != nil
}

// armTicker starts the repeating timer, stopping any existing one first so
// at most one timer is ever alive.
func (s *Scheduler) armTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
	}

	s.ticker = s.clock.Ticker(s.interval)
}

func (s *Scheduler) stopTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
