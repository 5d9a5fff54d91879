package middleware

import (
	"context"
	"net/http"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/handlers/userctx"
	"github.com/nkiryanov/videohub/internal/models"
)

type authService interface {
	Auth(ctx context.Context, r *http.Request) (models.Account, error)
}

type Auth struct {
	as authService
}

func NewAuth(as authService) *Auth {
	return &Auth{as: as}
}

// Required rejects requests without valid access token
func (a *Auth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := a.as.Auth(r.Context(), r)
		if err != nil {
			render.Error(w, err)
			return
		}
		ctx := userctx.New(r.Context(), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional puts account to context if the request is authenticated
// Requests without valid token are served as anonymous
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := a.as.Auth(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := userctx.New(r.Context(), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
