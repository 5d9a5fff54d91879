package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/service/content"
)

// Multipart form: title, description, duration (seconds); files: videoFile, thumbnail
func handlePublishVideo(vs videoService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Title       string  `json:"title" validate:"required,max=200"`
		Description string  `json:"description" validate:"required,max=5000"`
		Duration    float64 `json:"duration" validate:"gte=0"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}

		data := request{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
		}
		if raw := r.FormValue("duration"); raw != "" {
			duration, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				render.Error(w, apperrors.Validation("duration must be a number"))
				return
			}
			data.Duration = duration
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		videoFile, closeVideo, err := formFile(r, "videoFile")
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeVideo()

		thumbnail, closeThumbnail, err := formFile(r, "thumbnail")
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeThumbnail()

		video, err := vs.Publish(r.Context(), viewerID(r), content.PublishInput{
			Title:       data.Title,
			Description: data.Description,
			Duration:    data.Duration,
			Video:       videoFile,
			Thumbnail:   thumbnail,
		})
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		render.Created(w, "Video published successfully", newVideo(video))
	}
}

func handleGetVideo(vs videoService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}

		video, err := vs.Get(r.Context(), videoID, viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video fetched successfully", newVideoWithOwner(video))
	}
}

// Query: page, limit, query (title search), sortBy, sortType, userId
func handleListVideos(vs videoService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pageParams(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		query := content.ListVideosQuery{
			Query:    q.Get("query"),
			SortBy:   q.Get("sortBy"),
			SortType: q.Get("sortType"),
			Page:     p,
		}
		if raw := q.Get("userId"); raw != "" {
			ownerID, err := uuid.Parse(raw)
			if err != nil {
				render.Error(w, apperrors.Validation("invalid userId"))
				return
			}
			query.OwnerID = ownerID
		}

		page, err := vs.List(r.Context(), query, viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Videos fetched successfully", newPage(page, newVideoWithOwner))
	}
}

// Multipart form: title, description; optional file: thumbnail
func handleUpdateVideo(vs videoService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"required,max=5000"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}
		if !parseMultipart(w, r) {
			return
		}

		data := request{Title: r.FormValue("title"), Description: r.FormValue("description")}
		if err := render.Validate(w, data); err != nil {
			return
		}

		thumbnail, closeThumbnail, err := formFile(r, "thumbnail")
		if err != nil {
			render.Error(w, err)
			return
		}
		defer closeThumbnail()

		video, err := vs.Update(r.Context(), viewerID(r), videoID, content.UpdateVideoInput{
			Title:       data.Title,
			Description: data.Description,
			Thumbnail:   thumbnail,
		})
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video updated successfully", newVideo(video))
	}
}

func handleDeleteVideo(vs videoService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}

		if err := vs.Delete(r.Context(), viewerID(r), videoID); err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video deleted successfully", struct{}{})
	}
}

func handleTogglePublish(vs videoService, l logger.Logger) http.HandlerFunc {
	type response struct {
		IsPublished bool `json:"isPublished"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}

		video, err := vs.TogglePublish(r.Context(), viewerID(r), videoID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video publish status toggled successfully", response{IsPublished: video.IsPublished})
	}
}
