package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/videohub/internal/models"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func testVideo() models.Video {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.Video{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       "Test Video",
		Description: "about testing",
		Duration:    12.5,
		Views:       7,
		IsPublished: true,
		VideoFile:   models.Asset{URL: "http://storage.local/videos/v.mp4", StorageID: "videos/v.mp4"},
		Thumbnail:   models.Asset{URL: "http://storage.local/thumbnails/t.png", StorageID: "thumbnails/t.png"},
	}
}

func Test_RedisVideoCache(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		c := NewRedisVideoCache(client)
		video := testVideo()

		err := c.Set(t.Context(), video, time.Minute)
		require.NoError(t, err)

		got, err := c.Get(t.Context(), video.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, video.ID, got.ID)
		require.Equal(t, video.OwnerID, got.OwnerID)
		require.True(t, video.CreatedAt.Equal(got.CreatedAt))
		require.Equal(t, video.Title, got.Title)
		require.Equal(t, video.Views, got.Views)
		require.Equal(t, video.VideoFile, got.VideoFile)
		require.Equal(t, video.Thumbnail, got.Thumbnail)
	})

	t.Run("miss returns nil", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		c := NewRedisVideoCache(client)

		got, err := c.Get(t.Context(), uuid.New())

		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		c := NewRedisVideoCache(client)
		video := testVideo()
		require.NoError(t, c.Set(t.Context(), video, time.Minute))

		mr.FastForward(2 * time.Minute)

		got, err := c.Get(t.Context(), video.ID)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		c := NewRedisVideoCache(client)
		video := testVideo()
		require.NoError(t, c.Set(t.Context(), video, time.Minute))
		require.True(t, mr.Exists("video:"+video.ID.String()))

		err := c.Delete(t.Context(), video.ID)

		require.NoError(t, err)
		require.False(t, mr.Exists("video:"+video.ID.String()))
	})

	t.Run("fail on corrupted entry", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		c := NewRedisVideoCache(client)
		id := uuid.New()
		require.NoError(t, mr.Set("video:"+id.String(), "not-json"))

		_, err := c.Get(t.Context(), id)

		require.Error(t, err)
	})

	t.Run("fail if redis down", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		c := NewRedisVideoCache(client)
		mr.Close()

		_, err := c.Get(t.Context(), uuid.New())

		require.Error(t, err)
	})
}

func Test_VideoLoader(t *testing.T) {
	t.Parallel()

	t.Run("load once then serve from cache", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		l := NewVideoLoader(NewRedisVideoCache(client), time.Minute, nil)
		video := testVideo()
		var calls atomic.Int32
		load := func(ctx context.Context, id uuid.UUID) (models.Video, error) {
			calls.Add(1)
			return video, nil
		}

		for range 3 {
			got, err := l.Load(t.Context(), video.ID, load)
			require.NoError(t, err)
			require.Equal(t, video.ID, got.ID)
		}

		require.EqualValues(t, 1, calls.Load(), "store should be read once")
	})

	t.Run("forget drops entry", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		l := NewVideoLoader(NewRedisVideoCache(client), time.Minute, nil)
		video := testVideo()
		var calls atomic.Int32
		load := func(ctx context.Context, id uuid.UUID) (models.Video, error) {
			calls.Add(1)
			return video, nil
		}

		_, err := l.Load(t.Context(), video.ID, load)
		require.NoError(t, err)
		l.Forget(t.Context(), video.ID)
		_, err = l.Load(t.Context(), video.ID, load)
		require.NoError(t, err)

		require.EqualValues(t, 2, calls.Load())
	})

	t.Run("load errors are not cached", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		l := NewVideoLoader(NewRedisVideoCache(client), time.Minute, nil)
		loadErr := errors.New("not found")

		_, err := l.Load(t.Context(), uuid.New(), func(ctx context.Context, id uuid.UUID) (models.Video, error) {
			return models.Video{}, loadErr
		})

		require.ErrorIs(t, err, loadErr)
	})

	t.Run("falls back to store if cache broken", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		l := NewVideoLoader(NewRedisVideoCache(client), time.Minute, nil)
		mr.Close()
		video := testVideo()

		got, err := l.Load(t.Context(), video.ID, func(ctx context.Context, id uuid.UUID) (models.Video, error) {
			return video, nil
		})

		require.NoError(t, err)
		require.Equal(t, video.ID, got.ID)
	})

	t.Run("concurrent loads coalesced", func(t *testing.T) {
		l := NewVideoLoader(NoopVideoCache{}, time.Minute, nil)
		video := testVideo()
		release := make(chan struct{})
		var calls atomic.Int32
		load := func(ctx context.Context, id uuid.UUID) (models.Video, error) {
			calls.Add(1)
			<-release
			return video, nil
		}

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.Load(context.Background(), video.ID, load)
				assert.NoError(t, err)
			}()
		}

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		require.EqualValues(t, 1, calls.Load(), "only one load should reach the store")
	})
}
