package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("burst then refill", func(t *testing.T) {
		l := NewIPRateLimiter(1, time.Second, 2, time.Minute).(*ipRateLimiter)
		l.WithNowFunc(clock)

		require.True(t, l.Allow("1.1.1.1"))
		require.True(t, l.Allow("1.1.1.1"))
		require.False(t, l.Allow("1.1.1.1"), "burst exhausted")
		require.True(t, l.Allow("2.2.2.2"), "other keys are not affected")

		now = now.Add(time.Second)
		require.True(t, l.Allow("1.1.1.1"), "token refilled after window")
	})

	t.Run("idle visitors forgotten", func(t *testing.T) {
		l := NewIPRateLimiter(1, time.Second, 1, time.Minute).(*ipRateLimiter)
		l.WithNowFunc(clock)

		l.Allow("1.1.1.1")
		require.Len(t, l.visitors, 1)

		now = now.Add(2 * time.Minute)
		l.Allow("2.2.2.2")
		require.Len(t, l.visitors, 1)
		require.Contains(t, l.visitors, "2.2.2.2")
	})

	t.Run("defaults for invalid params", func(t *testing.T) {
		l := NewIPRateLimiter(0, 0, 0, 0).(*ipRateLimiter)

		require.Equal(t, 1, l.burst)
		require.Equal(t, 5*time.Minute, l.ttl)
	})
}

func TestRateLimit(t *testing.T) {
	l := NewIPRateLimiter(1, time.Hour, 1, time.Hour)
	h := RateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	require.Equal(t, http.StatusNoContent, do().Code)

	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"statusCode": 429, "success": false, "message": "Too many requests"}`, w.Body.String())
}
