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

// Community posts
type PostService struct {
	storage repository.Storage
}

func NewPostService(s repository.Storage) *PostService {
	return &PostService{storage: s}
}

func (s *PostService) Create(ctx context.Context, ownerID uuid.UUID, content string) (models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Post{}, apperrors.Validation("post content is required")
	}

	return s.storage.Post().Create(ctx, models.Post{OwnerID: ownerID, Content: content})
}

func (s *PostService) Update(ctx context.Context, accountID uuid.UUID, postID uuid.UUID, content string) (models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Post{}, apperrors.Validation("post content is required")
	}

	post, err := s.storage.Post().GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	if err := guard.AssertOwner(accountID, post); err != nil {
		return models.Post{}, err
	}

	return s.storage.Post().Update(ctx, postID, content)
}

func (s *PostService) Delete(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) error {
	post, err := s.storage.Post().GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := guard.AssertOwner(accountID, post); err != nil {
		return err
	}

	return s.storage.Post().Delete(ctx, postID)
}

// Posts of the account, newest first
func (s *PostService) ListByOwner(ctx context.Context, ownerID uuid.UUID, p paginate.Params) (paginate.Page[models.Post], error) {
	if _, err := s.storage.Account().GetByID(ctx, ownerID); err != nil {
		return paginate.Page[models.Post]{}, err
	}

	posts, total, err := s.storage.Post().ListByOwner(ctx, ownerID, p.Limit, p.Offset())
	if err != nil {
		return paginate.Page[models.Post]{}, err
	}

	return paginate.NewPage(posts, total, p), nil
}
