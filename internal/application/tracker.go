package application

import (
	"context"
	"time"

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/ports"
)

const (
	// DefaultPollTimeout is how long each long-poll request asks the server
	// to hold before answering with no update.
	DefaultPollTimeout = 45 * time.Second
	// DefaultCooldown is the pause between consecutive poll requests.
	DefaultCooldown = 2 * time.Second
)

// TrackEvent is one step of a tracking run: a status change, or the error
// that ended the run. The events channel closes after a terminal status, an
// error, or cancellation.
type TrackEvent struct {
	Order domain.Order
	Err   error
}

// Tracker runs the long-poll loop for one order. The first request reports
// no prior status so the server answers immediately with the current one;
// every later request blocks until the status moves on.
type Tracker struct {
	tracker     ports.OrderTracker
	pollTimeout time.Duration
	cooldown    time.Duration
}

func NewTracker(tracker ports.OrderTracker) *Tracker {
	return &Tracker{
		tracker:     tracker,
		pollTimeout: DefaultPollTimeout,
		cooldown:    DefaultCooldown,
	}
}

// WithIntervals overrides the poll timeout and cooldown, for tests and for
// debugging against a local backend.
func (t *Tracker) WithIntervals(pollTimeout, cooldown time.Duration) *Tracker {
	if pollTimeout > 0 {
		t.pollTimeout = pollTimeout
	}
	if cooldown > 0 {
		t.cooldown = cooldown
	}
	return t
}

// Run starts tracking orderID and returns the event stream. The goroutine
// exits when the order reaches a terminal status, a request fails, or ctx is
// cancelled; the channel closes in every case.
func (t *Tracker) Run(ctx context.Context, orderID int64) <-chan TrackEvent {
	events := make(chan TrackEvent, 1)

	go func() {
		defer close(events)

		var lastStatus domain.OrderStatus
		for {
			order, err := t.tracker.TrackOrder(ctx, orderID, lastStatus, t.pollTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				events <- TrackEvent{Err: err}
				return
			}

			if order.Status != lastStatus {
				lastStatus = order.Status
				select {
				case events <- TrackEvent{Order: order}:
				case <-ctx.Done():
					return
				}
				if order.Status.Terminal() {
					return
				}
			}

			if !sleep(ctx, t.cooldown) {
				return
			}
		}
	}()

	return events
}

// sleep waits d unless ctx ends first. It reports whether the full pause
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
