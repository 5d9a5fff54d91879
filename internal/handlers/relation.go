package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
)

// Path shortcuts for likeable targets
var likeKinds = map[string]models.TargetKind{
	"v": models.TargetVideo,
	"c": models.TargetComment,
	"p": models.TargetPost,
}

type toggleResponse struct {
	State models.ToggleState `json:"state"`
}

// Resolve like target from {kind} and {targetID} path params
func likeTarget(w http.ResponseWriter, r *http.Request) (models.Target, bool) {
	kind := likeKinds[chi.URLParam(r, "kind")]
	id, ok := pathID(w, r, "targetID")
	if !ok {
		return models.Target{}, false
	}
	return models.Target{Kind: kind, ID: id}, true
}

func handleToggleLike(rs relationService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := likeTarget(w, r)
		if !ok {
			return
		}

		state, err := rs.Toggle(r.Context(), viewerID(r), target)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		message := "Like added"
		if state == models.ToggleRemoved {
			message = "Like removed"
		}
		render.JSON(w, message, toggleResponse{State: state})
	}
}

func handleLikeSummary(as aggregateService, l logger.Logger) http.HandlerFunc {
	type response struct {
		Total int64             `json:"total"`
		Users []profileResponse `json:"users"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := likeTarget(w, r)
		if !ok {
			return
		}

		summary, err := as.LikeSummary(r.Context(), target)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Likes fetched successfully", response{
			Total: summary.Total,
			Users: mapSlice(summary.Users, newProfile),
		})
	}
}

func handleLikedVideos(as aggregateService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos, err := as.LikedVideos(r.Context(), viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Liked videos fetched successfully", mapSlice(videos, newVideoWithOwner))
	}
}

func handleToggleSubscription(rs relationService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, ok := pathID(w, r, "channelID")
		if !ok {
			return
		}

		state, err := rs.Toggle(r.Context(), viewerID(r), models.Target{Kind: models.TargetChannel, ID: channelID})
		if err != nil {
			serviceError(w, r, l, err)
			return
		}

		message := "Subscribed successfully"
		if state == models.ToggleRemoved {
			message = "Unsubscribed successfully"
		}
		render.JSON(w, message, toggleResponse{State: state})
	}
}

func handleSubscribers(as aggregateService, l logger.Logger) http.HandlerFunc {
	newSubscriber := func(s models.Subscriber) subscriberResponse {
		return subscriberResponse{profileResponse: newProfile(s.Profile), IsViewer: s.IsViewer}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		channelID, ok := pathID(w, r, "channelID")
		if !ok {
			return
		}

		subscribers, err := as.Subscribers(r.Context(), channelID, viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Subscribers fetched successfully", mapSlice(subscribers, newSubscriber))
	}
}

func handleSubscribedChannels(as aggregateService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID, ok := pathID(w, r, "subscriberID")
		if !ok {
			return
		}

		channels, err := as.SubscribedChannels(r.Context(), subscriberID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Subscribed channels fetched successfully", mapSlice(channels, newProfile))
	}
}
