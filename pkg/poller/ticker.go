package poller

import "time"

// realClock is the production Clock; the scheduler tests substitute fakes.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Ticker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

// realTicker adapts time.Ticker to the Ticker interface.
type realTicker struct {
	ticker *time.Ticker
}

func (r *realTicker) Chan() <-chan time.Time { return r.ticker.C }

func (r *realTicker) Stop() { r.ticker.Stop() }
