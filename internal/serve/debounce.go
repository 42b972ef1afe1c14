package serve

import (
	"context"
	"time"
)

// Debouncer coalesces bursts of rebuild requests into single fires: a quiet
// window must elapse since the last request, but the first request cannot be
// postponed beyond the max delay.
type Debouncer struct {
	quietWindow time.Duration
	maxDelay    time.Duration
	requests    chan string
}

// NewDebouncer creates a debouncer. Non-positive durations fall back to
// sensible preview defaults.
func NewDebouncer(quietWindow, maxDelay time.Duration) *Debouncer {
	if quietWindow <= 0 {
		quietWindow = 300 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	return &Debouncer{
		quietWindow: quietWindow,
		maxDelay:    maxDelay,
		requests:    make(chan string, 64),
	}
}

// Trigger requests a rebuild. Never blocks; duplicate requests within a burst
// collapse into one fire.
func (d *Debouncer) Trigger(reason string) {
	select {
	case d.requests <- reason:
	default:
	}
}

// Run dispatches coalesced fires until the context is canceled. fire receives
// the reason of the most recent request in the burst.
func (d *Debouncer) Run(ctx context.Context, fire func(reason string)) {
	var (
		quiet    *time.Timer
		deadline *time.Timer
		quietC   <-chan time.Time
		deadC    <-chan time.Time
		reason   string
	)
	stop := func(t *time.Timer) {
		if t != nil {
			t.Stop()
		}
	}
	reset := func() {
		stop(quiet)
		stop(deadline)
		quiet, deadline = nil, nil
		quietC, deadC = nil, nil
	}
	defer reset()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-d.requests:
			reason = r
			if quiet == nil {
				deadline = time.NewTimer(d.maxDelay)
				deadC = deadline.C
			} else {
				quiet.Stop()
			}
			quiet = time.NewTimer(d.quietWindow)
			quietC = quiet.C
		case <-quietC:
			reset()
			fire(reason)
		case <-deadC:
			reset()
			fire(reason)
		}
	}
}
