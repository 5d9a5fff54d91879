package handlers

import (
	"net/http"

	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/service/content"
)

func handleDashboardStats(as aggregateService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := as.Dashboard(r.Context(), viewerID(r))
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Channel stats fetched successfully", statsResponse{
			channelResponse: newChannel(stats.ChannelProfile),
			TotalVideos:     stats.TotalVideos,
			TotalViews:      stats.TotalViews,
			TotalLikes:      stats.TotalLikes,
		})
	}
}

// Own videos including unpublished ones
func handleDashboardVideos(vs videoService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pageParams(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		ownerID := viewerID(r)
		page, err := vs.List(r.Context(), content.ListVideosQuery{
			OwnerID:  ownerID,
			SortBy:   q.Get("sortBy"),
			SortType: q.Get("sortType"),
			Page:     p,
		}, ownerID)
		if err != nil {
			serviceError(w, r, l, err)
			return
		}
		render.JSON(w, "Channel videos fetched successfully", newPage(page, newVideoWithOwner))
	}
}

func handleHealthcheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, "OK", struct{}{})
	}
}
