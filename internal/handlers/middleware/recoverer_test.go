package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorLoggerFunc func(string, ...any)

func (f errorLoggerFunc) Error(msg string, v ...any) { f(msg, v...) }

func TestRecoverer(t *testing.T) {
	var logged string
	l := errorLoggerFunc(func(msg string, _ ...any) { logged = msg })

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	code, body := get(t, Recoverer(l)(h))

	require.Equal(t, http.StatusInternalServerError, code)
	require.JSONEq(t, `{"statusCode": 500, "success": false, "message": "something went wrong"}`, body)
	require.Equal(t, "panic recovered", logged)
}
