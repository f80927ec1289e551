package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, apiURL, sessionFile string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FF_API_URL", apiURL)
	t.Setenv("FF_SESSION_FILE", sessionFile)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func sessionFixture() string {
	return `version = 1

[session]
access_token = "access-1"
refresh_token = "refresh-1"

[session.user]
id = 4
email = "rana@example.com"
role = "customer"
`
}

func writeSessionFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte(sessionFixture()), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, "http://localhost:0", filepath.Join(t.TempDir(), "session.toml"), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestLoginPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/account/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{
			"user":{"id":4,"email":"rana@example.com","first_name":"Rana","role":"customer"},
			"access_token":"access-1","refresh_token":"refresh-1"}}`))
	}))
	t.Cleanup(server.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.toml")
	stdout, _, err := executeCLI(t, server.URL, sessionFile,
		"account", "login", "--email", "rana@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as rana (customer)")

	data, err := os.ReadFile(sessionFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "access_token = 'access-1'")
	assert.Contains(t, string(data), "refresh_token = 'refresh-1'")
}

func TestLoginRequiresEmailFlag(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", filepath.Join(t.TempDir(), "session.toml"),
		"account", "login", "--password", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"email\" not set")
}

func TestWhoamiUsesStoredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/account/profile", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":4,"email":"rana@example.com","first_name":"Rana","role":"customer"}}}`))
	}))
	t.Cleanup(server.Close)

	stdout, _, err := executeCLI(t, server.URL, writeSessionFixture(t), "account", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rana <rana@example.com> role=customer id=4")
}

func TestLogoutRemovesSessionFile(t *testing.T) {
	sessionFile := writeSessionFixture(t)

	stdout, _, err := executeCLI(t, "http://localhost:0", sessionFile, "account", "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrderListRendersBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orders/customer/4", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":12,"customer_id":4,"items":["falafel"],"restaurant_name":"Desert Rose","total_amount":6.5,"status":"preparing","created_at":"2026-08-28T09:00:00"}]}`))
	}))
	t.Cleanup(server.Close)

	stdout, _, err := executeCLI(t, server.URL, writeSessionFixture(t), "order", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "orders: 1")
	assert.Contains(t, stdout, "#12")
	assert.Contains(t, stdout, "preparing")
	assert.Contains(t, stdout, "Desert Rose")
}

func TestOrderCreateRequiresAuth(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", filepath.Join(t.TempDir(), "session.toml"),
		"order", "create", "--item", "falafel", "--address", "12 Rainbow St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestRegisterRejectsShortPasswordBeforeAnyRequest(t *testing.T) {
	// localhost:0 is unreachable, so passing validation would fail differently.
	_, _, err := executeCLI(t, "http://localhost:0", filepath.Join(t.TempDir(), "session.toml"),
		"account", "register", "--email", "rana@example.com", "--password", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}

func TestOrderCreateRejectsNonPositiveTotal(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", writeSessionFixture(t),
		"order", "create", "--item", "falafel", "--address", "12 Rainbow St", "--total", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order total must be greater than zero")
}

func TestOrderStatusRejectsUnknownStatus(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", writeSessionFixture(t),
		"order", "status", "12", "--set", "teleported")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order status")
}

func TestAnnounceCreateRequiresFlags(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", filepath.Join(t.TempDir(), "session.toml"),
		"announce", "create", "--title", "Free delivery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"message\" not set")
}

func TestChatAgentRequiresEmployeeRole(t *testing.T) {
	_, _, err := executeCLI(t, "http://localhost:0", writeSessionFixture(t), "chat", "agent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an employee account")
}
