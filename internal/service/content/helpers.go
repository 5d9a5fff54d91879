package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/storage"
)

// Attach owner profiles to videos keeping the order
func withOwners(ctx context.Context, s repository.Storage, videos []models.Video) ([]models.VideoWithOwner, error) {
	ids := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.OwnerID)
	}

	owners, err := s.Account().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uuid.UUID]models.Profile, len(owners))
	for _, o := range owners {
		profiles[o.ID] = o.Profile()
	}

	result := make([]models.VideoWithOwner, 0, len(videos))
	for _, v := range videos {
		result = append(result, models.VideoWithOwner{Video: v, Owner: profiles[v.OwnerID]})
	}

	return result, nil
}

// Best effort removal of stored files
func removeAssets(objects storage.ObjectStorage, l logger.Logger, assets ...models.Asset) {
	for _, a := range assets {
		if a.StorageID == "" {
			continue
		}
		if err := objects.Remove(context.Background(), a.StorageID); err != nil {
			l.Warn("failed to remove stored object", "storage_id", a.StorageID, "error", err)
		}
	}
}
