package handlers

import (
	"net/http"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
)

type postRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func handleCreatePost(ps postService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		post, err := ps.Create(r.Context(), viewerID(r), data.Content)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.Created(w, "Post created successfully", newPost(post))
	}
}

func handleListPosts(ps postService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}
		p, ok := pageParams(w, r)
		if !ok {
			return
		}

		page, err := ps.ListByOwner(r.Context(), userID, p)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Posts fetched successfully", newPage(page, newPost))
	}
}

func handleUpdatePost(ps postService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, "postID")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		post, err := ps.Update(r.Context(), viewerID(r), postID, data.Content)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Post updated successfully", newPost(post))
	}
}

func handleDeletePost(ps postService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, "postID")
		if !ok {
			return
		}

		if err := ps.Delete(r.Context(), viewerID(r), postID); err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Post deleted successfully", struct{}{})
	}
}
