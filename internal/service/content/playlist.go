package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/service/guard"
)

type PlaylistService struct {
	storage repository.Storage
}

func NewPlaylistService(s repository.Storage) *PlaylistService {
	return &PlaylistService{storage: s}
}

// Create playlist with optional videos. Every video must exist
func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name string, description string, videoIDs []uuid.UUID) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperrors.Validation("playlist name is required")
	}

	var playlist models.Playlist
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		var err error
		playlist, err = tx.Playlist().Create(ctx, models.Playlist{
			OwnerID:     ownerID,
			Name:        name,
			Description: strings.TrimSpace(description),
			VideoIDs:    videoIDs,
		})
		return err
	})

	return playlist, err
}

// Playlist with owner and videos in playlist order
func (s *PlaylistService) Get(ctx context.Context, playlistID uuid.UUID) (models.PlaylistDetails, error) {
	playlist, err := s.storage.Playlist().GetByID(ctx, playlistID)
	if err != nil {
		return models.PlaylistDetails{}, err
	}

	owner, err := s.storage.Account().GetByID(ctx, playlist.OwnerID)
	if err != nil {
		return models.PlaylistDetails{}, err
	}

	videos, err := s.storage.Video().ListByIDs(ctx, playlist.VideoIDs)
	if err != nil {
		return models.PlaylistDetails{}, err
	}

	byID := make(map[uuid.UUID]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]models.Video, 0, len(playlist.VideoIDs))
	for _, id := range playlist.VideoIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}

	return models.PlaylistDetails{Playlist: playlist, Owner: owner.Profile(), Videos: ordered}, nil
}

func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	if _, err := s.storage.Account().GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.storage.Playlist().ListByOwner(ctx, ownerID)
}

// Add videos to the end of playlist. Videos already in the playlist are skipped
func (s *PlaylistService) AddVideos(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, videoIDs []uuid.UUID) (models.Playlist, error) {
	if len(videoIDs) == 0 {
		return models.Playlist{}, apperrors.Validation("at least one video is required")
	}

	var playlist models.Playlist
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		if _, err := owned(ctx, tx, accountID, playlistID); err != nil {
			return err
		}
		if err := tx.Playlist().AddVideos(ctx, playlistID, videoIDs); err != nil {
			return err
		}

		var err error
		playlist, err = tx.Playlist().GetByID(ctx, playlistID)
		return err
	})

	return playlist, err
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) (models.Playlist, error) {
	if _, err := owned(ctx, s.storage, accountID, playlistID); err != nil {
		return models.Playlist{}, err
	}

	removed, err := s.storage.Playlist().RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return models.Playlist{}, err
	}
	if !removed {
		return models.Playlist{}, apperrors.ErrVideoNotInPlaylist
	}

	return s.storage.Playlist().GetByID(ctx, playlistID)
}

func (s *PlaylistService) Update(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, name string, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperrors.Validation("playlist name is required")
	}

	if _, err := owned(ctx, s.storage, accountID, playlistID); err != nil {
		return models.Playlist{}, err
	}

	return s.storage.Playlist().Update(ctx, playlistID, name, strings.TrimSpace(description))
}

func (s *PlaylistService) Delete(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID) error {
	if _, err := owned(ctx, s.storage, accountID, playlistID); err != nil {
		return err
	}

	return s.storage.Playlist().Delete(ctx, playlistID)
}

func owned(ctx context.Context, s repository.Storage, accountID uuid.UUID, playlistID uuid.UUID) (models.Playlist, error) {
	playlist, err := s.Playlist().GetByID(ctx, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if err := guard.AssertOwner(accountID, playlist); err != nil {
		return models.Playlist{}, err
	}

	return playlist, nil
}
