package application

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/ports"
)

// Default simulation parameters: a random walk around downtown Amman.
const (
	DefaultBaseLatitude  = 31.95
	DefaultBaseLongitude = 35.91
	DefaultStep          = 0.005
	DefaultDriveInterval = 15 * time.Second
)

// DriverSimulator stands in for a delivery driver's phone: it posts a
// position on a fixed interval, each one a small random step from the last.
type DriverSimulator struct {
	poster ports.LocationPoster

	DriverID int64
	OrderID  int64
	Interval time.Duration
	Step     float64

	// OnPost observes each accepted position, for progress output. May be nil.
	OnPost func(domain.DriverLocation)

	rng *rand.Rand
}

func NewDriverSimulator(poster ports.LocationPoster, driverID, orderID int64) *DriverSimulator {
	return &DriverSimulator{
		poster:   poster,
		DriverID: driverID,
		OrderID:  orderID,
		Interval: DefaultDriveInterval,
		Step:     DefaultStep,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run posts positions until ctx is cancelled or a post fails. The first
// position goes out immediately, then one per interval.
func (s *DriverSimulator) Run(ctx context.Context) error {
	loc := domain.DriverLocation{
		DriverID:  s.DriverID,
		OrderID:   s.OrderID,
		Latitude:  DefaultBaseLatitude,
		Longitude: DefaultBaseLongitude,
	}

	for {
		loc.Latitude += s.jitter()
		loc.Longitude += s.jitter()

		if err := s.poster.PostDriverLocation(ctx, loc); err != nil {
			return fmt.Errorf("post driver location: %w", err)
		}
		if s.OnPost != nil {
			s.OnPost(loc)
		}

		if !sleep(ctx, s.interval()) {
			return ctx.Err()
		}
	}
}

func (s *DriverSimulator) jitter() float64 {
	step := s.Step
	if step <= 0 {
		step = DefaultStep
	}
	return (s.rng.Float64() - 0.5) * 2 * step
}

func (s *DriverSimulator) interval() time.Duration {
	if s.Interval > 0 {
		return s.Interval
	}
	return DefaultDriveInterval
}
