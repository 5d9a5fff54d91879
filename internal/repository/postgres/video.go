package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `id, owner_id, created_at, updated_at, title, description, duration, views, is_published,
	video_url, video_storage_id, thumbnail_url, thumbnail_storage_id`

// Columns allowed for sorting, keyed by api name
var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}

const createVideo = `-- name: CreateVideo
INSERT INTO videos (id, owner_id, created_at, updated_at, title, description, duration, is_published,
	video_url, video_storage_id, thumbnail_url, thumbnail_storage_id)
VALUES ($1, $2, $3, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + videoColumns

func (r *VideoRepo) Create(ctx context.Context, v models.Video) (models.Video, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createVideo,
		v.ID, v.OwnerID, time.Now(), v.Title, v.Description, v.Duration, v.IsPublished,
		v.VideoFile.URL, v.VideoFile.StorageID, v.Thumbnail.URL, v.Thumbnail.StorageID,
	)
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case isForeignKeyViolation(err):
		return video, apperrors.ErrAccountNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

const getVideoByID = `-- name: GetVideoByID
SELECT ` + videoColumns + ` FROM videos
WHERE id = $1
`

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Video, error) {
	return r.getOne(ctx, getVideoByID, id)
}

const listVideosByIDs = `-- name: ListVideosByIDs
SELECT ` + videoColumns + ` FROM videos
WHERE id = ANY($1)
`

func (r *VideoRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Video, error) {
	if len(ids) == 0 {
		return []models.Video{}, nil
	}

	rows, _ := r.DB.Query(ctx, listVideosByIDs, ids)
	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}

const videoFilterWhere = `
WHERE ($1::uuid IS NULL OR owner_id = $1)
	AND ($2 = '' OR title ILIKE '%' || $2 || '%')
	AND (NOT $3 OR is_published)
`

func (r *VideoRepo) List(ctx context.Context, f models.VideoFilter) ([]models.Video, int64, error) {
	var owner *uuid.UUID
	if f.OwnerID != uuid.Nil {
		owner = &f.OwnerID
	}

	var total int64
	err := r.DB.QueryRow(ctx, "SELECT count(*) FROM videos"+videoFilterWhere, owner, f.Query, f.OnlyPublished).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	column, ok := videoSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	// Column and direction come from the whitelist above
	query := fmt.Sprintf("SELECT %s FROM videos %s ORDER BY %s %s, id LIMIT $4 OFFSET $5",
		videoColumns, videoFilterWhere, column, direction)

	rows, _ := r.DB.Query(ctx, query, owner, f.Query, f.OnlyPublished, f.Limit, f.Offset)
	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return videos, total, nil
}

const updateVideo = `-- name: UpdateVideo
UPDATE videos
SET title = $2, description = $3,
	video_url = $4, video_storage_id = $5, thumbnail_url = $6, thumbnail_storage_id = $7,
	updated_at = now()
WHERE id = $1
RETURNING ` + videoColumns

func (r *VideoRepo) Update(ctx context.Context, v models.Video) (models.Video, error) {
	return r.getOne(ctx, updateVideo,
		v.ID, v.Title, v.Description,
		v.VideoFile.URL, v.VideoFile.StorageID, v.Thumbnail.URL, v.Thumbnail.StorageID,
	)
}

const setVideoPublished = `-- name: SetVideoPublished
UPDATE videos
SET is_published = $2, updated_at = now()
WHERE id = $1
RETURNING ` + videoColumns

func (r *VideoRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) (models.Video, error) {
	return r.getOne(ctx, setVideoPublished, id, published)
}

const incrementVideoViews = `-- name: IncrementVideoViews
UPDATE videos SET views = views + 1
WHERE id = $1
`

func (r *VideoRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, incrementVideoViews, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrVideoNotFound
	default:
		return nil
	}
}

// Relations are not bound by foreign key, clean likes of the video and it's comments explicitly
const deleteVideo = `-- name: DeleteVideo
WITH deleted_comment_likes AS (
	DELETE FROM relations
	WHERE target_kind = 'comment' AND target_id IN (SELECT id FROM comments WHERE video_id = $1)
), deleted_video_likes AS (
	DELETE FROM relations
	WHERE target_kind = 'video' AND target_id = $1
)
DELETE FROM videos WHERE id = $1
`

func (r *VideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteVideo, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrVideoNotFound
	default:
		return nil
	}
}

const videoOwnerStats = `-- name: VideoOwnerStats
SELECT count(*), coalesce(sum(views), 0)::bigint
FROM videos
WHERE owner_id = $1
`

func (r *VideoRepo) OwnerStats(ctx context.Context, ownerID uuid.UUID) (int64, int64, error) {
	var videos, views int64
	err := r.DB.QueryRow(ctx, videoOwnerStats, ownerID).Scan(&videos, &views)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	return videos, views, nil
}

const listVideoIDsByOwner = `-- name: ListVideoIDsByOwner
SELECT id FROM videos
WHERE owner_id = $1
`

func (r *VideoRepo) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	rows, _ := r.DB.Query(ctx, listVideoIDsByOwner, ownerID)
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

func (r *VideoRepo) getOne(ctx context.Context, query string, args ...any) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, query, args...)
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt, &v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished,
		&v.VideoFile.URL, &v.VideoFile.StorageID, &v.Thumbnail.URL, &v.Thumbnail.StorageID,
	)
	return v, err
}
