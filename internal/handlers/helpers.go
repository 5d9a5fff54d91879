package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/handlers/middleware"
	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/handlers/userctx"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/service/paginate"
	"github.com/nkiryanov/videohub/internal/storage"
)

const (
	// Max size of multipart request (video file included)
	maxUploadSize = 1 << 30

	// Parts above this size are stored in temporary files
	multipartMemory = 32 << 20
)

// Render error and log it if it is not known to the application
func serviceError(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	if apperrors.KindOf(err) == apperrors.KindUpstreamFailure {
		l.Error("request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	render.Error(w, err)
}

// Parse uuid path parameter, renders error if it is invalid
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		render.Error(w, apperrors.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// Authenticated account id or uuid.Nil for anonymous viewer
func viewerID(r *http.Request) uuid.UUID {
	account, ok := userctx.FromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return account.ID
}

func pageParams(w http.ResponseWriter, r *http.Request) (paginate.Params, bool) {
	q := r.URL.Query()
	p, err := paginate.Parse(q.Get("page"), q.Get("limit"))
	if err != nil {
		render.Error(w, err)
		return p, false
	}
	return p, true
}

func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			render.Fail(w, http.StatusRequestEntityTooLarge, "Request body is too large")
		default:
			render.Fail(w, http.StatusBadRequest, "Expected multipart form data")
		}
		return false
	}
	return true
}

// Uploaded file from parsed multipart form
// Missing file is not an error: zero Upload is returned
func formFile(r *http.Request, field string) (storage.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return storage.Upload{}, func() {}, nil
	}
	if err != nil {
		return storage.Upload{}, func() {}, apperrors.Validation("invalid file in field " + field)
	}

	upload := storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return upload, func() { _ = file.Close() }, nil
}
