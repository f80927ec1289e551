// Package application holds the use-case services the commands call into:
// account lifecycle, order tracking and the driver fixture.
package application

import (
	"context"
	"fmt"

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/ports"
	"github.com/bnema/foodfast-cli/internal/session"
)

// RegisterCommand carries the sign-up form.
type RegisterCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// AccountGateway is the slice of the backend API the account service needs.
type AccountGateway interface {
	Register(ctx context.Context, cmd RegisterCommand) (domain.Session, error)
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Profile(ctx context.Context) (domain.User, error)
}

// AccountService owns the session lifecycle: restoring it at startup,
// establishing it on login or register, and dropping it on logout. Durable
// persistence is wired through the state's change hook, so every mutation
// here lands in the session file as a side effect.
type AccountService struct {
	gateway AccountGateway
	store   ports.SessionStore
	state   *session.State
}

func NewAccountService(gateway AccountGateway, store ports.SessionStore, state *session.State) *AccountService {
	return &AccountService{gateway: gateway, store: store, state: state}
}

// Restore loads the persisted session into the shared state. A missing file
// simply leaves the state unauthenticated.
func (s *AccountService) Restore(ctx context.Context) (domain.Session, error) {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("restore session: %w", err)
	}

	if sess.Authenticated() {
		s.state.Set(sess)
	}
	return sess, nil
}

func (s *AccountService) Register(ctx context.Context, cmd RegisterCommand) (domain.User, error) {
	sess, err := s.gateway.Register(ctx, cmd)
	if err != nil {
		return domain.User{}, fmt.Errorf("register account: %w", err)
	}

	s.state.Set(sess)
	return sess.User, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (domain.User, error) {
	sess, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}

	s.state.Set(sess)
	return sess.User, nil
}

// Logout drops the in-memory session; the change hook removes the file.
func (s *AccountService) Logout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state.Clear()
	return nil
}

// Profile fetches the authenticated identity from the backend and refreshes
// the cached copy.
func (s *AccountService) Profile(ctx context.Context) (domain.User, error) {
	if !s.state.Current().Authenticated() {
		return domain.User{}, domain.ErrNotAuthenticated
	}

	user, err := s.gateway.Profile(ctx)
	if err != nil {
		return domain.User{}, err
	}

	current := s.state.Current()
	current.User = user
	s.state.Set(current)
	return user, nil
}
