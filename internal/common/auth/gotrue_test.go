package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apptrack-backend/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GoTrueClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewGoTrueClient(srv.URL, "anon-key", "service-key", 5*time.Second)
}

func TestSignUp_Success(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "dev@example.com", payload["email"])

		json.NewEncoder(w).Encode(User{ID: "u1", Email: "dev@example.com"})
	})

	user, err := client.SignUp(context.Background(), "dev@example.com", "hunter22!")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestSignUp_RejectedIsNonRetryable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"msg":"email already registered"}`))
	})

	_, err := client.SignUp(context.Background(), "dev@example.com", "hunter22!")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRegistrationFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestSignInWithPassword_Success(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(Session{
			AccessToken: "jwt-token",
			TokenType:   "bearer",
			ExpiresIn:   3600,
			User:        User{ID: "u1", Email: "dev@example.com"},
		})
	})

	session, err := client.SignInWithPassword(context.Background(), "dev@example.com", "hunter22!")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestSignInWithPassword_BadCredentials(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := client.SignInWithPassword(context.Background(), "dev@example.com", "wrong")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidCredentials, stdErr.Code)
}

func TestSignInWithPassword_ServerErrorIsRetryable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SignInWithPassword(context.Background(), "dev@example.com", "hunter22!")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.True(t, stdErr.Retryable)
}

func TestGetUser_ValidToken(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "dev@example.com"})
	})

	user, err := client.GetUser(context.Background(), "jwt-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestGetUser_InvalidToken(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetUser(context.Background(), "expired")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, stdErr.Code)
}

func TestAdminGetUser_UsesServiceKey(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users/u1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "dev@example.com"})
	})

	user, err := client.AdminGetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestGetEmail(t *testing.T) {
	t.Run("resolves email", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(User{ID: "u1", Email: "dev@example.com"})
		})

		email, err := client.GetEmail(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "dev@example.com", email)
	})

	t.Run("missing user", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.GetEmail(context.Background(), "ghost")
		require.Error(t, err)
	})

	t.Run("user without email", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(User{ID: "u1"})
		})

		_, err := client.GetEmail(context.Background(), "u1")
		require.Error(t, err)
	})
}
