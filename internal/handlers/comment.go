package handlers

import (
	"net/http"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
)

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func handleListComments(cs commentService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}
		p, ok := pageParams(w, r)
		if !ok {
			return
		}

		page, err := cs.List(r.Context(), videoID, p)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Comments fetched successfully", newPage(page, newComment))
	}
}

func handleAddComment(cs commentService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[commentRequest](w, r)
		if err != nil {
			return
		}

		comment, err := cs.Add(r.Context(), viewerID(r), videoID, data.Content)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.Created(w, "Comment added successfully", newComment(comment))
	}
}

func handleUpdateComment(cs commentService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, ok := pathID(w, r, "commentID")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[commentRequest](w, r)
		if err != nil {
			return
		}

		comment, err := cs.Update(r.Context(), viewerID(r), commentID, data.Content)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Comment updated successfully", newComment(comment))
	}
}

func handleDeleteComment(cs commentService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, ok := pathID(w, r, "commentID")
		if !ok {
			return
		}

		if err := cs.Delete(r.Context(), viewerID(r), commentID); err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Comment deleted successfully", struct{}{})
	}
}
