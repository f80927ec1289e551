// Package stream subscribes to the backend's server-sent event feeds:
// announcement broadcasts, the employee order board feed and per-order
// driver location updates.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"

	"github.com/bnema/foodfast-cli/internal/session"
)

// ConnState is the lifecycle of a single subscription.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
)

// errStreamEnded marks a stream that the server ended without the
// subscription asking for it.
var errStreamEnded = errors.New("stream ended unexpectedly")

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Subscriber opens event-stream connections against the backend. A dropped
// stream stays closed unless MaxReconnectWait opts into bounded retries.
type Subscriber struct {
	BaseURL          string
	HTTPClient       *http.Client
	Session          *session.State
	MaxReconnectWait time.Duration
}

// Topic binds a stream path to a decoder for its event payloads.
type Topic[T any] struct {
	Path   string
	Query  url.Values
	Decode func(data []byte) (T, error)
}

// Subscription is one live stream. Events are delivered on Events until the
// stream ends; after Events is closed, Err reports why.
type Subscription[T any] struct {
	events  chan T
	cancel  context.CancelFunc
	done    chan struct{}
	onState func(ConnState)

	closeOnce sync.Once
	closed    bool

	mu  sync.Mutex
	err error
}

func (s *Subscription[T]) Events() <-chan T { return s.events }

// Err reports why the stream ended. It is nil before Events is closed and
// stays nil when the subscription was closed intentionally.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the stream down. Safe to call more than once and after the
// stream has already ended on its own.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cancel()
	})
	<-s.done
}

func (s *Subscription[T]) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.err != nil {
		return
	}
	s.err = err
}

// Subscribe opens topic's stream and starts delivering decoded events. The
// state callback may be nil; when set it receives connecting, open and closed
// transitions, in order, from the subscription's own goroutines.
func Subscribe[T any](ctx context.Context, sub *Subscriber, topic Topic[T], onState func(ConnState)) (*Subscription[T], error) {
	endpoint, err := sub.endpoint(topic.Path, topic.Query)
	if err != nil {
		return nil, err
	}
	if onState == nil {
		onState = func(ConnState) {}
	}

	streamCtx, cancel := context.WithCancel(ctx)

	client := sse.NewClient(endpoint)
	if sub.HTTPClient != nil {
		client.Connection = sub.HTTPClient
	}
	if token := sub.Session.Current().AccessToken; token != "" {
		client.Headers["Authorization"] = "Bearer " + token
	}
	client.ReconnectStrategy = sub.reconnectStrategy()
	client.OnConnect(func(*sse.Client) { onState(StateOpen) })
	client.OnDisconnect(func(*sse.Client) { onState(StateConnecting) })

	s := &Subscription[T]{
		events:  make(chan T, 16),
		cancel:  cancel,
		done:    make(chan struct{}),
		onState: onState,
	}

	onState(StateConnecting)
	go s.run(streamCtx, client, topic)

	return s, nil
}

func (s *Subscription[T]) run(ctx context.Context, client *sse.Client, topic Topic[T]) {
	defer close(s.done)
	defer close(s.events)
	defer s.onState(StateClosed)

	err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		data := bytes.TrimSpace(msg.Data)
		if len(data) == 0 || string(msg.Event) == "ping" {
			// Keepalive, nothing to deliver.
			return
		}

		event, decodeErr := topic.Decode(data)
		if decodeErr != nil {
			// A malformed frame is dropped, not fatal for the stream.
			return
		}

		select {
		case s.events <- event:
		case <-ctx.Done():
		}
	})
	if ctx.Err() != nil {
		return
	}
	// The sse client reports a server-side close as a clean end. Unless the
	// subscription itself asked for the teardown, ending at all is a failure.
	if err == nil {
		err = errStreamEnded
	}
	s.setErr(fmt.Errorf("event stream %s: %w", client.URL, err))
}

// reconnectStrategy stops on the first failure unless MaxReconnectWait opts
// into exponential retries capped at that interval.
func (sub *Subscriber) reconnectStrategy() backoff.BackOff {
	if sub.MaxReconnectWait <= 0 {
		return &backoff.StopBackOff{}
	}
	strategy := backoff.NewExponentialBackOff()
	strategy.MaxInterval = sub.MaxReconnectWait
	strategy.MaxElapsedTime = 0
	return strategy
}

func (sub *Subscriber) endpoint(path string, query url.Values) (string, error) {
	parsed, err := url.Parse(sub.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse stream base url: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("stream base url host is required")
	}
	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse stream path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}
