package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/handlers/userctx"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
)

type tokensResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

func newTokens(pair models.TokenPair) tokensResponse {
	return tokensResponse{
		AccessToken:           pair.Access.Value,
		AccessTokenExpiresAt:  pair.Access.ExpiresAt,
		RefreshToken:          pair.Refresh.Value,
		RefreshTokenExpiresAt: pair.Refresh.ExpiresAt,
	}
}

func handleLogin(as authService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Username string `json:"username" validate:"required_without=Email"`
		Email    string `json:"email" validate:"omitempty,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		User accountResponse `json:"user"`
		tokensResponse
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		identifier := data.Username
		if data.Email != "" {
			identifier = data.Email
		}

		account, pair, err := as.Login(r.Context(), identifier, data.Password)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		as.SetTokens(w, pair)
		render.JSON(w, "User logged in successfully", response{
			User:           newAccount(account),
			tokensResponse: newTokens(pair),
		})
	}
}

func handleRefresh(as authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, err := as.GetRefresh(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		pair, err := as.Refresh(r.Context(), refresh)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		as.SetTokens(w, pair)
		render.JSON(w, "Access token refreshed", newTokens(pair))
	}
}

func handleLogout(as authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, _ := userctx.FromContext(r.Context())

		if err := as.Logout(r.Context(), account.ID); err != nil {
			serviceError(w, r, l, err)
			return
		}

		as.ClearTokens(w)
		render.JSON(w, "User logged out", struct{}{})
	}
}

func handleChangePassword(as authService, l logger.Logger) http.HandlerFunc {
	type request struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8,max=72,strongpwd"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}
		account, _ := userctx.FromContext(r.Context())

		if err := as.ChangePassword(r.Context(), account.ID, data.OldPassword, data.NewPassword); err != nil {
			serviceError(w, r, l, err)
			return
		}

		// Session is closed with password change
		as.ClearTokens(w)
		render.JSON(w, "Password changed successfully", struct{}{})
	}
}
