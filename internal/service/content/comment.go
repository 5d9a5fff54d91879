package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/service/guard"
	"github.com/nkiryanov/videohub/internal/service/paginate"
)

type CommentService struct {
	storage repository.Storage
}

func NewCommentService(s repository.Storage) *CommentService {
	return &CommentService{storage: s}
}

func (s *CommentService) Add(ctx context.Context, ownerID uuid.UUID, videoID uuid.UUID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, apperrors.Validation("comment content is required")
	}

	if _, err := s.storage.Video().GetByID(ctx, videoID); err != nil {
		return models.Comment{}, err
	}

	return s.storage.Comment().Create(ctx, models.Comment{OwnerID: ownerID, VideoID: videoID, Content: content})
}

func (s *CommentService) Update(ctx context.Context, accountID uuid.UUID, commentID uuid.UUID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, apperrors.Validation("comment content is required")
	}

	comment, err := s.storage.Comment().GetByID(ctx, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if err := guard.AssertOwner(accountID, comment); err != nil {
		return models.Comment{}, err
	}

	return s.storage.Comment().Update(ctx, commentID, content)
}

func (s *CommentService) Delete(ctx context.Context, accountID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.storage.Comment().GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := guard.AssertOwner(accountID, comment); err != nil {
		return err
	}

	return s.storage.Comment().Delete(ctx, commentID)
}

// Comments of the video, newest first
func (s *CommentService) List(ctx context.Context, videoID uuid.UUID, p paginate.Params) (paginate.Page[models.Comment], error) {
	if _, err := s.storage.Video().GetByID(ctx, videoID); err != nil {
		return paginate.Page[models.Comment]{}, err
	}

	comments, total, err := s.storage.Comment().ListByVideo(ctx, videoID, p.Limit, p.Offset())
	if err != nil {
		return paginate.Page[models.Comment]{}, err
	}

	return paginate.NewPage(comments, total, p), nil
}
