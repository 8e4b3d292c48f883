package poller

import "time"

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Visibility reports whether the display region is currently on-screen.
// The scheduler re-checks it immediately before every probe.
type Visibility interface {
	Visible() bool
}
