package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/session"
)

func newTestClient(serverURL string, sess domain.Session) (*Client, *session.State) {
	state := session.NewState(sess)
	return New(serverURL, http.DefaultClient, state), state
}

func TestProfileAttachesBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":3,"email":"a@b.c","role":"customer"}}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "access-1"})

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
}

func TestRefreshOnceThenRetrySucceeds(t *testing.T) {
	t.Parallel()

	var refreshCalls, profileCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/account/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"access_token":"access-2"}}`))
	})
	mux.HandleFunc("/api/v1/account/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":3,"email":"a@b.c","role":"customer"}}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, state := newTestClient(server.URL, domain.Session{AccessToken: "stale", RefreshToken: "refresh-1"})

	var persisted atomic.Int32
	state.OnChange(func(domain.Session) { persisted.Add(1) })

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), profileCalls.Load())
	assert.Equal(t, "access-2", state.Current().AccessToken)
	assert.Equal(t, "refresh-1", state.Current().RefreshToken)
	assert.Equal(t, int32(1), persisted.Load(), "new access credential must be persisted")
}

func TestPersistent401NeverLoops(t *testing.T) {
	t.Parallel()

	var refreshCalls, profileCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/account/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"data":{"access_token":"still-bad"}}`))
	})
	mux.HandleFunc("/api/v1/account/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "stale", RefreshToken: "refresh-1"})

	_, err := client.Profile(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh attempt per original request")
	assert.Equal(t, int32(2), profileCalls.Load(), "original request retried exactly once")
}

func TestRefreshFailureClearsSessionAndIsFatal(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/account/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"refresh denied"}`))
	})
	mux.HandleFunc("/api/v1/account/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, state := newTestClient(server.URL, domain.Session{AccessToken: "stale", RefreshToken: "refresh-1"})

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.False(t, state.Current().Authenticated(), "credentials must be cleared")
}

func TestNo401RetryWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	var profileCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "stale"})

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), profileCalls.Load())
}

func TestNoRetryOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "a", RefreshToken: "r"})

	_, err := client.AllOrders(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTrackOrderQueryParameters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/12/track", r.URL.Path)
		assert.Equal(t, "preparing", r.URL.Query().Get("last_status"))
		assert.Equal(t, "45", r.URL.Query().Get("timeout"))
		_, _ = w.Write([]byte(`{"success":true,"has_update":true,"data":{"id":12,"status":"ready","created_at":"2026-08-01T10:30:00.123456"}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "a"})

	order, err := client.TrackOrder(context.Background(), 12, domain.OrderPreparing, 45*time.Second)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReady, order.Status)
	assert.Equal(t, 2026, order.CreatedAt.Year())
}

func TestTrackOrderFirstLookOmitsLastStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("last_status"))
		_, _ = w.Write([]byte(`{"success":true,"has_update":true,"data":{"id":12,"status":"confirmed"}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{})

	order, err := client.TrackOrder(context.Background(), 12, "", 45*time.Second)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, order.Status)
}

func TestTrackOrderMapsMissingOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"order not found"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "access-1"})

	_, err := client.TrackOrder(context.Background(), 999, "", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestAnnouncementEnvelopeKeys(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/announcements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"success":true,"announcement":{"id":1,"title":"50% off","message":"today only"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"announcements":[{"id":1,"title":"50% off","message":"today only"}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, _ := newTestClient(server.URL, domain.Session{AccessToken: "a"})

	created, err := client.CreateAnnouncement(context.Background(), CreateAnnouncementArgs{Title: "50% off", Message: "today only"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	listed, err := client.Announcements(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "50% off", listed[0].Title)
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		year int
	}{
		{"2026-08-01T10:30:00.123456", 2026},
		{"2026-08-01T10:30:00", 2026},
		{"2026-08-01T10:30:00Z", 2026},
		{"garbage", 1},
	}
	for _, tc := range cases {
		ts := ParseTimestamp(tc.raw)
		if tc.year == 1 {
			assert.True(t, ts.IsZero())
			continue
		}
		assert.Equal(t, tc.year, ts.Year())
	}
}
