package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
)

func handleCreatePlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Name        string      `json:"name" validate:"required,max=100"`
		Description string      `json:"description" validate:"max=1000"`
		VideoIDs    []uuid.UUID `json:"videoIds" validate:"max=500"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		playlist, err := ps.Create(r.Context(), viewerID(r), data.Name, data.Description, data.VideoIDs)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.Created(w, "Playlist created successfully", newPlaylist(playlist))
	}
}

func handleGetPlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, ok := pathID(w, r, "playlistID")
		if !ok {
			return
		}

		playlist, err := ps.Get(r.Context(), playlistID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Playlist fetched successfully", newPlaylistDetails(playlist))
	}
}

func handleListPlaylists(ps playlistService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}

		playlists, err := ps.ListByOwner(r.Context(), userID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Playlists fetched successfully", mapSlice(playlists, newPlaylist))
	}
}

func handleUpdatePlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	type request struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"max=1000"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, ok := pathID(w, r, "playlistID")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		playlist, err := ps.Update(r.Context(), viewerID(r), playlistID, data.Name, data.Description)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Playlist updated successfully", newPlaylist(playlist))
	}
}

func handleDeletePlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, ok := pathID(w, r, "playlistID")
		if !ok {
			return
		}

		if err := ps.Delete(r.Context(), viewerID(r), playlistID); err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Playlist deleted successfully", struct{}{})
	}
}

func handleAddToPlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}
		playlistID, ok := pathID(w, r, "playlistID")
		if !ok {
			return
		}

		playlist, err := ps.AddVideos(r.Context(), viewerID(r), playlistID, []uuid.UUID{videoID})
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video added to playlist", newPlaylist(playlist))
	}
}

func handleRemoveFromPlaylist(ps playlistService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := pathID(w, r, "videoID")
		if !ok {
			return
		}
		playlistID, ok := pathID(w, r, "playlistID")
		if !ok {
			return
		}

		playlist, err := ps.RemoveVideo(r.Context(), viewerID(r), playlistID, videoID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Video removed from playlist", newPlaylist(playlist))
	}
}
