package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/session"
)

type fakeGateway struct {
	session domain.Session
	user    domain.User
	err     error
}

func (f *fakeGateway) Register(ctx context.Context, cmd RegisterCommand) (domain.Session, error) {
	return f.session, f.err
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return f.session, f.err
}

func (f *fakeGateway) Profile(ctx context.Context) (domain.User, error) {
	return f.user, f.err
}

// memoryStore keeps the session in memory, standing in for the TOML file.
type memoryStore struct {
	saved   domain.Session
	cleared bool
}

func (m *memoryStore) Load(ctx context.Context) (domain.Session, error) { return m.saved, nil }
func (m *memoryStore) Save(ctx context.Context, sess domain.Session) error {
	m.saved = sess
	return nil
}
func (m *memoryStore) Clear(ctx context.Context) error {
	m.cleared = true
	m.saved = domain.Session{}
	return nil
}

func TestLoginInstallsSession(t *testing.T) {
	t.Parallel()

	want := domain.Session{
		AccessToken:  "a",
		RefreshToken: "r",
		User:         domain.User{ID: 1, Email: "rana@example.com", Role: domain.RoleCustomer},
	}
	state := session.NewState(domain.Session{})
	service := NewAccountService(&fakeGateway{session: want}, &memoryStore{}, state)

	user, err := service.Login(context.Background(), "rana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, want.User, user)
	assert.Equal(t, want, state.Current())
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	state := session.NewState(domain.Session{})
	service := NewAccountService(&fakeGateway{err: errors.New("bad credentials")}, &memoryStore{}, state)

	_, err := service.Login(context.Background(), "rana@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, state.Current().Authenticated())
}

func TestRestoreInstallsPersistedSession(t *testing.T) {
	t.Parallel()

	stored := domain.Session{AccessToken: "a", User: domain.User{ID: 2, Role: domain.RoleEmployee}}
	state := session.NewState(domain.Session{})
	service := NewAccountService(&fakeGateway{}, &memoryStore{saved: stored}, state)

	sess, err := service.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, sess)
	assert.Equal(t, stored, state.Current())
}

func TestLogoutClearsStateAndFiresHook(t *testing.T) {
	t.Parallel()

	state := session.NewState(domain.Session{AccessToken: "a", RefreshToken: "r"})
	store := &memoryStore{}
	// Mirror mutations to the store the way the command wiring does.
	state.OnChange(func(sess domain.Session) {
		if sess.Authenticated() {
			_ = store.Save(context.Background(), sess)
		} else {
			_ = store.Clear(context.Background())
		}
	})

	service := NewAccountService(&fakeGateway{}, store, state)
	require.NoError(t, service.Logout(context.Background()))

	assert.False(t, state.Current().Authenticated())
	assert.True(t, store.cleared)
}

func TestProfileRequiresAuthentication(t *testing.T) {
	t.Parallel()

	state := session.NewState(domain.Session{})
	service := NewAccountService(&fakeGateway{}, &memoryStore{}, state)

	_, err := service.Profile(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestProfileRefreshesCachedIdentity(t *testing.T) {
	t.Parallel()

	state := session.NewState(domain.Session{AccessToken: "a", User: domain.User{ID: 1, FirstName: "Old"}})
	fresh := domain.User{ID: 1, FirstName: "New", Role: domain.RoleCustomer}
	service := NewAccountService(&fakeGateway{user: fresh}, &memoryStore{}, state)

	user, err := service.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, user)
	assert.Equal(t, fresh, state.Current().User)
	assert.Equal(t, "a", state.Current().AccessToken, "credentials survive the identity refresh")
}
