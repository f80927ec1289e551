// Package session holds the explicitly shared session state object injected
// into the HTTP client and the realtime chat client, replacing the page-global
// auth blob the web client used.
package session

import (
	"sync"

	"github.com/bnema/foodfast-cli/internal/domain"
)

// State is the process-wide session holder. Only the HTTP client's refresh
// path mutates credentials; every other component reads whatever is current.
type State struct {
	mu       sync.RWMutex
	current  domain.Session
	onChange func(domain.Session)
}

func NewState(initial domain.Session) *State {
	return &State{current: initial}
}

// OnChange registers a hook invoked after every mutation, with the new
// session value. Used to mirror credentials into durable storage.
func (s *State) OnChange(fn func(domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *State) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *State) User() domain.User {
	return s.Current().User
}

func (s *State) Set(session domain.Session) {
	s.mu.Lock()
	s.current = session
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(session)
	}
}

// SetAccessToken swaps in a freshly refreshed access credential, keeping the
// refresh credential and identity.
func (s *State) SetAccessToken(token string) {
	s.mu.Lock()
	s.current.AccessToken = token
	updated := s.current
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(updated)
	}
}

// Clear drops all credentials and identity. Used on logout and on the fatal
// refresh-failure path.
func (s *State) Clear() {
	s.Set(domain.Session{})
}
