package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/handlers/userctx"
	"github.com/nkiryanov/videohub/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, r *http.Request) (models.Account, error)

func (f authFunc) Auth(ctx context.Context, r *http.Request) (models.Account, error) {
	return f(ctx, r)
}

func get(t *testing.T, h http.Handler) (int, string) {
	t.Helper()

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/test")
	require.NoError(t, err, "should make request to test server")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	return resp.StatusCode, string(body)
}

func TestAuth(t *testing.T) {
	// Writes username from context or 'anonymous'
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "anonymous"
		if account, ok := userctx.FromContext(r.Context()); ok {
			name = account.Username
		}

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(name))
		require.NoError(t, err, "should write username to response")
	})

	ok := NewAuth(authFunc(func(ctx context.Context, r *http.Request) (models.Account, error) {
		return models.Account{Username: "test-user"}, nil
	}))
	expired := NewAuth(authFunc(func(ctx context.Context, r *http.Request) (models.Account, error) {
		return models.Account{}, apperrors.ErrTokenExpired
	}))

	t.Run("required ok", func(t *testing.T) {
		code, body := get(t, ok.Required(handler))

		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "test-user", body, "should return username in response")
	})

	t.Run("required fail", func(t *testing.T) {
		code, body := get(t, expired.Required(handler))

		require.Equalf(t, http.StatusUnauthorized, code, "should return status Unauthorized. Resp: %s", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		require.Equal(t, false, resp["success"])
		require.Equal(t, "token is expired", resp["message"])
	})

	t.Run("optional authenticated", func(t *testing.T) {
		code, body := get(t, ok.Optional(handler))

		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "test-user", body)
	})

	t.Run("optional anonymous", func(t *testing.T) {
		code, body := get(t, expired.Optional(handler))

		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "anonymous", body)
	})
}
