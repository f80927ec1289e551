package statefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/foodfast-cli/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	config := viper.New()
	config.Set("session.path", sessionPath)

	store, err := NewStore(config)
	require.NoError(t, err)

	sess := domain.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: domain.User{
			ID:        4,
			Email:     "rana@example.com",
			FirstName: "Rana",
			Role:      domain.RoleCustomer,
		},
	}

	require.NoError(t, store.Save(context.Background(), sess))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestLoadMissingFileIsUnauthenticated(t *testing.T) {
	t.Parallel()

	store, err := NewStoreAt(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
}

func TestClearRemovesFileAndToleratesAbsence(t *testing.T) {
	t.Parallel()

	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	store, err := NewStoreAt(sessionPath)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "a"}))
	require.NoError(t, store.Clear(context.Background()))

	_, statErr := os.Stat(sessionPath)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing again is not an error.
	require.NoError(t, store.Clear(context.Background()))
}

func TestSessionFileIsPrivate(t *testing.T) {
	t.Parallel()

	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	store, err := NewStoreAt(sessionPath)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "secret"}))

	info, err := os.Stat(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestUnsupportedSchemaVersionIsRejected(t *testing.T) {
	t.Parallel()

	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(sessionPath, []byte("version = 99\n"), 0o600))

	store, err := NewStoreAt(sessionPath)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported session schema version")
}

func TestSaveOverwritesPreviousSession(t *testing.T) {
	t.Parallel()

	store, err := NewStoreAt(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "old", RefreshToken: "old-r"}))
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "new"}))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
}
