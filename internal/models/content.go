package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	Description string
	Duration    float64
	Views       int64
	IsPublished bool
	VideoFile   Asset
	Thumbnail   Asset
}

func (v Video) Owner() uuid.UUID { return v.OwnerID }

type Comment struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	VideoID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Content   string
}

func (c Comment) Owner() uuid.UUID { return c.OwnerID }

// Community post
type Post struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Content   string
}

func (p Post) Owner() uuid.UUID { return p.OwnerID }

type Playlist struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string

	// Ordered by the time video was added
	VideoIDs []uuid.UUID
}

func (p Playlist) Owner() uuid.UUID { return p.OwnerID }
