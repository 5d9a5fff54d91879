package aggregate

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
)

// AggregateService composes read views from accounts, content and relations
// Nothing it returns is stored: counts are computed on every call
type AggregateService struct {
	storage repository.Storage
}

func NewService(s repository.Storage) *AggregateService {
	return &AggregateService{storage: s}
}

// Channel profile as seen by the viewer. Viewer may be uuid.Nil for anonymous requests
func (s *AggregateService) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	account, err := s.storage.Account().GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return models.ChannelProfile{}, apperrors.ErrChannelNotFound
	default:
		return models.ChannelProfile{}, err
	}

	return s.channelProfile(ctx, account, viewerID)
}

// Owner statistics: profile, subscribers, videos, views and likes over all owner videos
func (s *AggregateService) Dashboard(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error) {
	account, err := s.storage.Account().GetByID(ctx, ownerID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	// Owner can't subscribe to own channel, so the summary is built without a viewer
	profile, err := s.channelProfile(ctx, account, uuid.Nil)
	if err != nil {
		return models.ChannelStats{}, err
	}

	videos, views, err := s.storage.Video().OwnerStats(ctx, ownerID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	ids, err := s.storage.Video().ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	likes, err := s.storage.Relation().CountByTargets(ctx, models.TargetVideo, ids)
	if err != nil {
		return models.ChannelStats{}, err
	}

	return models.ChannelStats{
		ChannelProfile: profile,
		TotalVideos:    videos,
		TotalViews:     views,
		TotalLikes:     likes,
	}, nil
}

// Watched videos, most recent first
func (s *AggregateService) WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.VideoWithOwner, error) {
	ids, err := s.storage.History().ListVideoIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return s.videosWithOwners(ctx, ids)
}

// Videos liked by the account, most recently liked first
func (s *AggregateService) LikedVideos(ctx context.Context, accountID uuid.UUID) ([]models.VideoWithOwner, error) {
	ids, err := s.storage.Relation().ListTargetIDs(ctx, accountID, models.TargetVideo)
	if err != nil {
		return nil, err
	}

	return s.videosWithOwners(ctx, ids)
}

// Channels the account subscribed to, most recent first
func (s *AggregateService) SubscribedChannels(ctx context.Context, accountID uuid.UUID) ([]models.Profile, error) {
	ids, err := s.storage.Relation().ListTargetIDs(ctx, accountID, models.TargetChannel)
	if err != nil {
		return nil, err
	}

	accounts, err := s.storage.Account().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return orderedJoin(ids, accounts, func(a models.Account) uuid.UUID { return a.ID }, models.Account.Profile), nil
}

// Subscribers of the channel, newest first
// Each one is marked if it is the viewer
func (s *AggregateService) Subscribers(ctx context.Context, channelID uuid.UUID, viewerID uuid.UUID) ([]models.Subscriber, error) {
	_, err := s.storage.Account().GetByID(ctx, channelID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return nil, apperrors.ErrChannelNotFound
	default:
		return nil, err
	}

	profiles, err := s.storage.Relation().ListSubjects(ctx, models.Target{Kind: models.TargetChannel, ID: channelID})
	if err != nil {
		return nil, err
	}

	subscribers := make([]models.Subscriber, 0, len(profiles))
	for _, p := range profiles {
		subscribers = append(subscribers, models.Subscriber{Profile: p, IsViewer: viewerID != uuid.Nil && p.ID == viewerID})
	}

	return subscribers, nil
}

// Number of likes and who liked, newest first
func (s *AggregateService) LikeSummary(ctx context.Context, target models.Target) (models.LikeSummary, error) {
	users, err := s.storage.Relation().ListSubjects(ctx, target)
	if err != nil {
		return models.LikeSummary{}, err
	}

	return models.LikeSummary{Total: int64(len(users)), Users: users}, nil
}

func (s *AggregateService) channelProfile(ctx context.Context, account models.Account, viewerID uuid.UUID) (models.ChannelProfile, error) {
	summary, err := s.storage.Relation().ChannelSummary(ctx, account.ID, viewerID)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	return models.ChannelProfile{
		Profile:        account.Profile(),
		Email:          account.Email,
		CoverImage:     account.CoverImage.URL,
		ChannelSummary: summary,
	}, nil
}

// Expand video ids into videos with owner profile, keeping ids order
func (s *AggregateService) videosWithOwners(ctx context.Context, ids []uuid.UUID) ([]models.VideoWithOwner, error) {
	videos, err := s.storage.Video().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := s.storage.Account().ListByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uuid.UUID]models.Profile, len(owners))
	for _, o := range owners {
		profiles[o.ID] = o.Profile()
	}

	return orderedJoin(ids, videos, func(v models.Video) uuid.UUID { return v.ID }, func(v models.Video) models.VideoWithOwner {
		return models.VideoWithOwner{Video: v, Owner: profiles[v.OwnerID]}
	}), nil
}

// orderedJoin arranges records in ids order. Ids without record are skipped
func orderedJoin[T any, R any](ids []uuid.UUID, records []T, key func(T) uuid.UUID, convert func(T) R) []R {
	byID := make(map[uuid.UUID]T, len(records))
	for _, r := range records {
		byID[key(r)] = r
	}

	result := make([]R, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			result = append(result, convert(r))
		}
	}

	return result
}
