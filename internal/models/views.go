package models

import (
	"github.com/google/uuid"
)

// Composed read models. Never stored, always derived from accounts and relations

type ChannelSummary struct {
	SubscribersCount  int64
	SubscribedToCount int64
	IsSubscribed      bool
}

type ChannelProfile struct {
	Profile
	Email      string
	CoverImage string
	ChannelSummary
}

type ChannelStats struct {
	ChannelProfile
	TotalVideos int64
	TotalViews  int64
	TotalLikes  int64
}

type VideoWithOwner struct {
	Video
	Owner Profile
}

// Subscriber of a channel as seen by the viewer
type Subscriber struct {
	Profile
	IsViewer bool
}

type LikeSummary struct {
	Total int64
	Users []Profile
}

type PlaylistDetails struct {
	Playlist
	Owner  Profile
	Videos []Video
}

// Filter for listing videos
type VideoFilter struct {
	OwnerID       uuid.UUID
	Query         string
	OnlyPublished bool
	SortBy        string
	SortDesc      bool
	Limit         int
	Offset        int
}
