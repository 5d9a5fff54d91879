package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/cache"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/service/guard"
	"github.com/nkiryanov/videohub/internal/service/paginate"
	"github.com/nkiryanov/videohub/internal/storage"
)

// Sort fields accepted by video listing
var videoSortFields = map[string]bool{
	"createdAt": true,
	"views":     true,
	"title":     true,
	"duration":  true,
}

type PublishInput struct {
	Title       string
	Description string

	// Seconds
	Duration float64

	Video     storage.Upload
	Thumbnail storage.Upload
}

type UpdateVideoInput struct {
	Title       string
	Description string

	// Optional, zero Body keeps current thumbnail
	Thumbnail storage.Upload
}

type ListVideosQuery struct {
	// Optional
	OwnerID uuid.UUID
	Query   string

	// createdAt, views, title or duration
	SortBy string

	// asc or desc
	SortType string

	Page paginate.Params
}

type VideoService struct {
	storage repository.Storage
	objects storage.ObjectStorage
	loader  *cache.VideoLoader
	logger  logger.Logger
}

func NewVideoService(s repository.Storage, objects storage.ObjectStorage, loader *cache.VideoLoader, l logger.Logger) *VideoService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	if loader == nil {
		loader = cache.NewVideoLoader(cache.NoopVideoCache{}, 0, l)
	}

	return &VideoService{storage: s, objects: objects, loader: loader, logger: l}
}

// Upload files and create published video
func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishInput) (models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return models.Video{}, apperrors.Validation("title and description are required")
	}
	if in.Video.Body == nil || in.Thumbnail.Body == nil {
		return models.Video{}, apperrors.Validation("video file and thumbnail are required")
	}
	if in.Duration < 0 {
		return models.Video{}, apperrors.Validation("duration must not be negative")
	}

	videoFile, err := storage.Put(ctx, s.objects, storage.FolderVideos, in.Video)
	if err != nil {
		return models.Video{}, fmt.Errorf("video upload failed. Err: %w", err)
	}

	thumbnail, err := storage.Put(ctx, s.objects, storage.FolderThumbnails, in.Thumbnail)
	if err != nil {
		removeAssets(s.objects, s.logger, videoFile)
		return models.Video{}, fmt.Errorf("thumbnail upload failed. Err: %w", err)
	}

	video, err := s.storage.Video().Create(ctx, models.Video{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		IsPublished: true,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		removeAssets(s.objects, s.logger, videoFile, thumbnail)
		return models.Video{}, err
	}

	return video, nil
}

// Get video with it's owner
// Unpublished videos are visible to the owner only
// Authenticated viewer's watch is recorded: views incremented and video added to history
func (s *VideoService) Get(ctx context.Context, videoID uuid.UUID, viewerID uuid.UUID) (models.VideoWithOwner, error) {
	video, err := s.loader.Load(ctx, videoID, s.storage.Video().GetByID)
	if err != nil {
		return models.VideoWithOwner{}, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return models.VideoWithOwner{}, apperrors.ErrVideoNotFound
	}

	if viewerID != uuid.Nil {
		err := s.storage.InTx(ctx, func(tx repository.Storage) error {
			if err := tx.Video().IncrementViews(ctx, videoID); err != nil {
				return err
			}
			return tx.History().Record(ctx, viewerID, videoID)
		})
		if err != nil {
			return models.VideoWithOwner{}, err
		}
		s.loader.Forget(ctx, videoID)
		video.Views++
	}

	owner, err := s.storage.Account().GetByID(ctx, video.OwnerID)
	if err != nil {
		return models.VideoWithOwner{}, err
	}

	return models.VideoWithOwner{Video: video, Owner: owner.Profile()}, nil
}

// Page of videos. Unpublished videos are listed only when owner lists own videos
func (s *VideoService) List(ctx context.Context, q ListVideosQuery, viewerID uuid.UUID) (paginate.Page[models.VideoWithOwner], error) {
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if !videoSortFields[q.SortBy] {
		return paginate.Page[models.VideoWithOwner]{}, apperrors.Validation("sortBy must be one of createdAt, views, title, duration")
	}

	var desc bool
	switch strings.ToLower(q.SortType) {
	case "", "desc":
		desc = true
	case "asc":
	default:
		return paginate.Page[models.VideoWithOwner]{}, apperrors.Validation("sortType must be asc or desc")
	}

	videos, total, err := s.storage.Video().List(ctx, models.VideoFilter{
		OwnerID:       q.OwnerID,
		Query:         strings.TrimSpace(q.Query),
		OnlyPublished: q.OwnerID == uuid.Nil || q.OwnerID != viewerID,
		SortBy:        q.SortBy,
		SortDesc:      desc,
		Limit:         q.Page.Limit,
		Offset:        q.Page.Offset(),
	})
	if err != nil {
		return paginate.Page[models.VideoWithOwner]{}, err
	}

	items, err := withOwners(ctx, s.storage, videos)
	if err != nil {
		return paginate.Page[models.VideoWithOwner]{}, err
	}

	return paginate.NewPage(items, total, q.Page), nil
}

// Update video details. New thumbnail replaces the old one
func (s *VideoService) Update(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID, in UpdateVideoInput) (models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return models.Video{}, apperrors.Validation("title and description are required")
	}

	video, err := s.owned(ctx, accountID, videoID)
	if err != nil {
		return models.Video{}, err
	}

	old := video.Thumbnail
	video.Title = in.Title
	video.Description = in.Description
	if in.Thumbnail.Body != nil {
		video.Thumbnail, err = storage.Put(ctx, s.objects, storage.FolderThumbnails, in.Thumbnail)
		if err != nil {
			return models.Video{}, fmt.Errorf("thumbnail upload failed. Err: %w", err)
		}
	}

	updated, err := s.storage.Video().Update(ctx, video)
	if err != nil {
		if in.Thumbnail.Body != nil {
			removeAssets(s.objects, s.logger, video.Thumbnail)
		}
		return models.Video{}, err
	}

	s.loader.Forget(ctx, videoID)
	if in.Thumbnail.Body != nil {
		removeAssets(s.objects, s.logger, old)
	}

	return updated, nil
}

// Delete video with it's comments and likes, then remove it's files
func (s *VideoService) Delete(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) error {
	video, err := s.owned(ctx, accountID, videoID)
	if err != nil {
		return err
	}

	if err := s.storage.Video().Delete(ctx, videoID); err != nil {
		return err
	}

	s.loader.Forget(ctx, videoID)
	removeAssets(s.objects, s.logger, video.VideoFile, video.Thumbnail)

	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) (models.Video, error) {
	video, err := s.owned(ctx, accountID, videoID)
	if err != nil {
		return models.Video{}, err
	}

	updated, err := s.storage.Video().SetPublished(ctx, videoID, !video.IsPublished)
	if err != nil {
		return models.Video{}, err
	}

	s.loader.Forget(ctx, videoID)
	return updated, nil
}

// Load video from the store (not cache) and check the account owns it
func (s *VideoService) owned(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) (models.Video, error) {
	video, err := s.storage.Video().GetByID(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}

	if err := guard.AssertOwner(accountID, video); err != nil {
		return models.Video{}, err
	}

	return video, nil
}
