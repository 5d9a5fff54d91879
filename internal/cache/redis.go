package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nkiryanov/videohub/internal/metrics"
	"github.com/nkiryanov/videohub/internal/models"
)

const videoCacheKeyPrefix = "video:"

// VideoCache keeps video records between requests
// Get returns nil, nil on cache miss
type VideoCache interface {
	Get(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	Set(ctx context.Context, video models.Video, ttl time.Duration) error
	Delete(ctx context.Context, videoID uuid.UUID) error
}

// Cached representation. Explicit struct keeps domain model free of json tags
type videoJSON struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	VideoURL    string    `json:"video_url"`
	VideoID     string    `json:"video_storage_id"`
	ThumbURL    string    `json:"thumbnail_url"`
	ThumbID     string    `json:"thumbnail_storage_id"`
}

type RedisVideoCache struct {
	client *redis.Client
}

func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{client: client}
}

func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	data, err := c.client.Get(ctx, buildKey(videoID)).Bytes()
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheOperation(metrics.CacheOpGet, metrics.CacheStatusMiss)
		return nil, nil
	default:
		metrics.RecordCacheOperation(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		metrics.RecordCacheOperation(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	metrics.RecordCacheOperation(metrics.CacheOpGet, metrics.CacheStatusHit)
	return &models.Video{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		VideoFile:   models.Asset{URL: v.VideoURL, StorageID: v.VideoID},
		Thumbnail:   models.Asset{URL: v.ThumbURL, StorageID: v.ThumbID},
	}, nil
}

func (c *RedisVideoCache) Set(ctx context.Context, video models.Video, ttl time.Duration) error {
	data, err := json.Marshal(videoJSON{
		ID:          video.ID,
		OwnerID:     video.OwnerID,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
		Title:       video.Title,
		Description: video.Description,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		VideoURL:    video.VideoFile.URL,
		VideoID:     video.VideoFile.StorageID,
		ThumbURL:    video.Thumbnail.URL,
		ThumbID:     video.Thumbnail.StorageID,
	})
	if err != nil {
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(video.ID), data, ttl).Err(); err != nil {
		metrics.RecordCacheOperation(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.RecordCacheOperation(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

func (c *RedisVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if err := c.client.Del(ctx, buildKey(videoID)).Err(); err != nil {
		metrics.RecordCacheOperation(metrics.CacheOpDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.RecordCacheOperation(metrics.CacheOpDelete, metrics.CacheStatusSuccess)
	return nil
}

func buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

// NoopVideoCache never stores anything. Used when redis is not configured
type NoopVideoCache struct{}

func (NoopVideoCache) Get(context.Context, uuid.UUID) (*models.Video, error)  { return nil, nil }
func (NoopVideoCache) Set(context.Context, models.Video, time.Duration) error { return nil }
func (NoopVideoCache) Delete(context.Context, uuid.UUID) error                { return nil }
