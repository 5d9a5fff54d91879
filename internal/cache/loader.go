package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/metrics"
	"github.com/nkiryanov/videohub/internal/models"
)

const DefaultTTL = 5 * time.Minute

// LoadFunc reads the video from the primary store
type LoadFunc func(ctx context.Context, videoID uuid.UUID) (models.Video, error)

// VideoLoader is a cache-aside reader
// Concurrent loads of the same video are coalesced into one
type VideoLoader struct {
	cache  VideoCache
	ttl    time.Duration
	logger logger.Logger
	group  singleflight.Group
}

func NewVideoLoader(cache VideoCache, ttl time.Duration, l logger.Logger) *VideoLoader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &VideoLoader{cache: cache, ttl: ttl, logger: l}
}

func (l *VideoLoader) Load(ctx context.Context, videoID uuid.UUID, load LoadFunc) (models.Video, error) {
	result, err, shared := l.group.Do(videoID.String(), func() (any, error) {
		return l.load(ctx, videoID, load)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return models.Video{}, err
	}
	return result.(models.Video), nil
}

// Forget drops cached video. Failures are logged only: entry expires anyway
func (l *VideoLoader) Forget(ctx context.Context, videoID uuid.UUID) {
	if err := l.cache.Delete(ctx, videoID); err != nil {
		l.logger.Warn("failed to invalidate video cache", "video_id", videoID, "error", err)
	}
}

func (l *VideoLoader) load(ctx context.Context, videoID uuid.UUID, load LoadFunc) (models.Video, error) {
	cached, err := l.cache.Get(ctx, videoID)
	if err != nil {
		l.logger.Warn("cache get failed, falling back to database", "video_id", videoID, "error", err)
	}
	if cached != nil {
		return *cached, nil
	}

	video, err := load(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}

	if err := l.cache.Set(ctx, video, l.ttl); err != nil {
		l.logger.Warn("failed to cache video", "video_id", videoID, "error", err)
	}

	return video, nil
}
