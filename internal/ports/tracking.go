package ports

import (
	"context"
	"time"

	"github.com/bnema/foodfast-cli/internal/domain"
)

// OrderTracker is the one long-poll request the tracker loop issues: it
// blocks server-side until the status moves past lastStatus or the timeout
// elapses, then returns the current order.
type OrderTracker interface {
	TrackOrder(ctx context.Context, orderID int64, lastStatus domain.OrderStatus, timeout time.Duration) (domain.Order, error)
}

// LocationPoster is the write half of the driver fixture: it reports a
// simulated driver position to the backend.
type LocationPoster interface {
	PostDriverLocation(ctx context.Context, loc domain.DriverLocation) error
}
