package guard

import (
	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

// Owned is a record with immutable owner
type Owned interface {
	Owner() uuid.UUID
}

// AssertOwner allows modification only to the record owner
func AssertOwner(accountID uuid.UUID, record Owned) error {
	if accountID == uuid.Nil || record.Owner() != accountID {
		return apperrors.ErrForbidden
	}
	return nil
}
