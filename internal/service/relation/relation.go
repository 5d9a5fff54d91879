package relation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/metrics"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
)

// Toggle gives up after this many insert-or-delete rounds lost to concurrent toggles
const maxToggleAttempts = 3

type RelationService struct {
	storage repository.Storage
}

func NewService(s repository.Storage) *RelationService {
	return &RelationService{storage: s}
}

// Toggle flips relation between subject and target: creates it if absent, removes otherwise
// Applying toggle twice leaves relation in the initial state
func (s *RelationService) Toggle(ctx context.Context, subjectID uuid.UUID, target models.Target) (models.ToggleState, error) {
	if !target.Kind.Valid() {
		return "", apperrors.Validation(fmt.Sprintf("unknown relation target %q", target.Kind))
	}
	if target.Kind == models.TargetChannel && target.ID == subjectID {
		return "", apperrors.ErrSelfSubscription
	}

	if err := s.ensureTarget(ctx, target); err != nil {
		metrics.RecordToggle(string(target.Kind), "error")
		return "", err
	}

	relations := s.storage.Relation()
	for range maxToggleAttempts {
		inserted, err := relations.Insert(ctx, subjectID, target)
		if err != nil {
			metrics.RecordToggle(string(target.Kind), "error")
			return "", err
		}
		if inserted {
			metrics.RecordToggle(string(target.Kind), string(models.ToggleAdded))
			return models.ToggleAdded, nil
		}

		deleted, err := relations.Delete(ctx, subjectID, target)
		if err != nil {
			metrics.RecordToggle(string(target.Kind), "error")
			return "", err
		}
		if deleted {
			metrics.RecordToggle(string(target.Kind), string(models.ToggleRemoved))
			return models.ToggleRemoved, nil
		}

		// Relation removed concurrently between insert and delete. Start over
	}

	metrics.RecordToggle(string(target.Kind), "error")
	return "", apperrors.ErrToggleRetriesExceeded
}

// Number of relations pointing to the target
func (s *RelationService) Count(ctx context.Context, target models.Target) (int64, error) {
	return s.storage.Relation().Count(ctx, target)
}

// Profiles of subjects related to the target, newest first
func (s *RelationService) ListSubjects(ctx context.Context, target models.Target) ([]models.Profile, error) {
	return s.storage.Relation().ListSubjects(ctx, target)
}

// Ids of targets of the kind the subject related to, newest first
func (s *RelationService) ListTargets(ctx context.Context, subjectID uuid.UUID, kind models.TargetKind) ([]uuid.UUID, error) {
	return s.storage.Relation().ListTargetIDs(ctx, subjectID, kind)
}

func (s *RelationService) ensureTarget(ctx context.Context, target models.Target) error {
	var err error
	switch target.Kind {
	case models.TargetVideo:
		_, err = s.storage.Video().GetByID(ctx, target.ID)
	case models.TargetComment:
		_, err = s.storage.Comment().GetByID(ctx, target.ID)
	case models.TargetPost:
		_, err = s.storage.Post().GetByID(ctx, target.ID)
	case models.TargetChannel:
		_, err = s.storage.Account().GetByID(ctx, target.ID)
	}

	if err != nil && apperrors.KindOf(err) == apperrors.KindNotFound {
		return fmt.Errorf("%w: %s", apperrors.ErrTargetNotFound, target.Kind)
	}
	return err
}
