package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{ProjectURL: srv.URL, AnonKey: "anon-key"})
	require.NoError(t, err)
	return client
}

func TestNewRequiresProjectURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestSignInWithPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@hostdesk.test", creds["email"])

		json.NewEncoder(w).Encode(Session{
			AccessToken: "token-1",
			TokenType:   "bearer",
			ExpiresIn:   3600,
			User:        User{ID: "u1", Email: "admin@hostdesk.test"},
		})
	})

	session, err := client.SignInWithPassword(context.Background(), "admin@hostdesk.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-1", session.AccessToken)
	assert.Equal(t, "admin@hostdesk.test", session.User.Email)
}

func TestSignInWithPasswordRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	_, err := client.SignInWithPassword(context.Background(), "admin@hostdesk.test", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "Invalid login credentials", authErr.Message)
	assert.False(t, authErr.Transient())
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "admin@hostdesk.test", Role: "authenticated"})
	})

	user, err := client.GetUser(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "authenticated", user.Role)
}

func TestGetUserServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetUser(context.Background(), "token-1")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.Transient())
}

func TestSignOut(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.SignOut(context.Background(), "token-1"))
	assert.True(t, called)
}
