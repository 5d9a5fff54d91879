package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type infoLogger interface {
	Info(msg string, args ...any)
}

// Wraps response writer to capture status and size
// Handler that writes nothing is reported as 200
func wrapWriter(w http.ResponseWriter, r *http.Request) (chimw.WrapResponseWriter, func() int) {
	ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
	status := func() int {
		if s := ww.Status(); s != 0 {
			return s
		}
		return http.StatusOK
	}
	return ww, status
}

func LoggerMiddleware(l infoLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww, status := wrapWriter(w, r)

			next.ServeHTTP(ww, r)

			l.Info(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
				"status", status(),
				"size", ww.BytesWritten(),
				"request_id", GetRequestID(r.Context()),
			)
		})
	}
}
