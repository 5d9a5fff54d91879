package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind of record a relation points to
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetPost    TargetKind = "post"
	TargetChannel TargetKind = "channel"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetPost, TargetChannel:
		return true
	default:
		return false
	}
}

// Target of a relation. Channel targets point to an account
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

// Like (video, comment, post target) or subscription (channel target)
// At most one relation exists for (SubjectID, Target)
type Relation struct {
	SubjectID uuid.UUID
	Target    Target
	CreatedAt time.Time
}

type ToggleState string

const (
	ToggleAdded   ToggleState = "added"
	ToggleRemoved ToggleState = "removed"
)
