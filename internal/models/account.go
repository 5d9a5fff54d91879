package models

import (
	"time"

	"github.com/google/uuid"
)

// Reference to an object in the object storage
type Asset struct {
	URL       string
	StorageID string
}

func (a Asset) IsZero() bool {
	return a.StorageID == "" && a.URL == ""
}

type Account struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	FullName       string
	Avatar         Asset
	CoverImage     Asset
	HashedPassword string

	// Currently valid refresh token. Nil when there is no active session
	RefreshToken *string
}

// Public part of an account that is safe to embed into other records
type Profile struct {
	ID       uuid.UUID
	Username string
	FullName string
	Avatar   string
}

func (a Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		Username: a.Username,
		FullName: a.FullName,
		Avatar:   a.Avatar.URL,
	}
}
