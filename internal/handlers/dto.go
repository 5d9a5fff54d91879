package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/service/paginate"
)

// JSON representations of models

type accountResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newAccount(a models.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		FullName:   a.FullName,
		Avatar:     a.Avatar.URL,
		CoverImage: a.CoverImage.URL,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type profileResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

func newProfile(p models.Profile) profileResponse {
	return profileResponse{ID: p.ID, Username: p.Username, FullName: p.FullName, Avatar: p.Avatar}
}

type channelResponse struct {
	profileResponse
	Email                     string `json:"email"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

func newChannel(c models.ChannelProfile) channelResponse {
	return channelResponse{
		profileResponse:           newProfile(c.Profile),
		Email:                     c.Email,
		CoverImage:                c.CoverImage,
		SubscribersCount:          c.SubscribersCount,
		ChannelsSubscribedToCount: c.SubscribedToCount,
		IsSubscribed:              c.IsSubscribed,
	}
}

type statsResponse struct {
	channelResponse
	TotalVideos int64 `json:"totalVideos"`
	TotalViews  int64 `json:"totalViews"`
	TotalLikes  int64 `json:"totalLikes"`
}

type subscriberResponse struct {
	profileResponse
	IsViewer bool `json:"isViewer"`
}

type videoResponse struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"ownerId"`
	Owner       *profileResponse `json:"owner,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Duration    float64          `json:"duration"`
	Views       int64            `json:"views"`
	IsPublished bool             `json:"isPublished"`
	VideoFile   string           `json:"videoFile"`
	Thumbnail   string           `json:"thumbnail"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func newVideo(v models.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		VideoFile:   v.VideoFile.URL,
		Thumbnail:   v.Thumbnail.URL,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func newVideoWithOwner(v models.VideoWithOwner) videoResponse {
	resp := newVideo(v.Video)
	owner := newProfile(v.Owner)
	resp.Owner = &owner
	return resp
}

type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	VideoID   uuid.UUID `json:"videoId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newComment(c models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type postResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newPost(p models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type playlistResponse struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	VideoIDs    []uuid.UUID `json:"videoIds"`
	TotalVideos int         `json:"totalVideos"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func newPlaylist(p models.Playlist) playlistResponse {
	ids := p.VideoIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return playlistResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		VideoIDs:    ids,
		TotalVideos: len(ids),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type playlistDetailsResponse struct {
	playlistResponse
	Owner  profileResponse `json:"owner"`
	Videos []videoResponse `json:"videos"`
}

func newPlaylistDetails(p models.PlaylistDetails) playlistDetailsResponse {
	return playlistDetailsResponse{
		playlistResponse: newPlaylist(p.Playlist),
		Owner:            newProfile(p.Owner),
		Videos:           mapSlice(p.Videos, newVideo),
	}
}

type pageResponse[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

func newPage[T any, R any](p paginate.Page[T], convert func(T) R) pageResponse[R] {
	return pageResponse[R]{
		Docs:        mapSlice(p.Items, convert),
		TotalDocs:   p.Total,
		Page:        p.CurrentPage,
		TotalPages:  p.TotalPages,
		Limit:       p.Limit,
		HasPrevPage: p.CurrentPage > 1,
		HasNextPage: p.CurrentPage < p.TotalPages,
	}
}

// Never returns nil so empty lists are rendered as []
func mapSlice[T any, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}
