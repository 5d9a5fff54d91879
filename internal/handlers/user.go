package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/service/user"
	"github.com/nkiryanov/videohub/internal/storage"
)

// Multipart form: username, email, fullName, password; files: avatar (required), coverImage
func handleRegister(us userService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Username string `json:"username" validate:"required,min=3,max=30,username"`
		Email    string `json:"email" validate:"required,email"`
		FullName string `json:"fullName" validate:"required,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72,strongpwd"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}

		data := request{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			FullName: r.FormValue("fullName"),
			Password: r.FormValue("password"),
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		avatar, closeAvatar, err := formFile(r, "avatar")
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeAvatar()

		cover, closeCover, err := formFile(r, "coverImage")
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeCover()

		account, err := us.Register(r.Context(), user.RegisterInput{
			Username: data.Username,
			Email:    data.Email,
			FullName: data.FullName,
			Password: data.Password,
			Avatar:   avatar,
			Cover:    cover,
		})
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		render.Created(w, "User registered successfully", newAccount(account))
	}
}

func handleCurrentUser(us userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := us.CurrentUser(r.Context(), viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Current user fetched successfully", newAccount(account))
	}
}

func handleUpdateAccount(us userService, l logger.Logger) http.HandlerFunc {
	type request struct {
		FullName string `json:"fullName" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		account, err := us.UpdateDetails(r.Context(), viewerID(r), data.FullName, data.Email)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Account details updated successfully", newAccount(account))
	}
}

type assetUpdater func(ctx context.Context, accountID uuid.UUID, upload storage.Upload) (models.Account, error)

// Replace account image from multipart file 'field'
func handleUpdateImage(field string, update assetUpdater, message string, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}

		upload, closeFile, err := formFile(r, field)
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeFile()

		account, err := update(r.Context(), viewerID(r), upload)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, message, newAccount(account))
	}
}

func handleUpdateAvatar(us userService, l logger.Logger) http.HandlerFunc {
	return handleUpdateImage("avatar", us.UpdateAvatar, "Avatar image updated successfully", l)
}

func handleUpdateCoverImage(us userService, l logger.Logger) http.HandlerFunc {
	return handleUpdateImage("coverImage", us.UpdateCoverImage, "Cover image updated successfully", l)
}

func handleChannelProfile(as aggregateService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := as.ChannelProfile(r.Context(), chi.URLParam(r, "username"), viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "User channel fetched successfully", newChannel(profile))
	}
}

func handleWatchHistory(as aggregateService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos, err := as.WatchHistory(r.Context(), viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Watch history fetched successfully", mapSlice(videos, newVideoWithOwner))
	}
}
