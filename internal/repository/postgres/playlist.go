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

type PlaylistRepo struct {
	DB DBTX
}

const selectPlaylist = `
SELECT p.id, p.owner_id, p.created_at, p.updated_at, p.name, p.description,
	coalesce(
		array_agg(pv.video_id ORDER BY pv.added_at) FILTER (WHERE pv.video_id IS NOT NULL),
		'{}'
	)::uuid[]
FROM playlists p
LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
`

const createPlaylist = `-- name: CreatePlaylist
INSERT INTO playlists (id, owner_id, created_at, updated_at, name, description)
VALUES ($1, $2, $3, $3, $4, $5)
`

// Call inside transaction: playlist and it's videos are inserted with separate statements
func (r *PlaylistRepo) Create(ctx context.Context, p models.Playlist) (models.Playlist, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	_, err := r.DB.Exec(ctx, createPlaylist, p.ID, p.OwnerID, time.Now(), p.Name, p.Description)
	if err != nil {
		return p, fmt.Errorf("db error: %w", err)
	}

	if err := r.AddVideos(ctx, p.ID, p.VideoIDs); err != nil {
		return p, err
	}

	return r.GetByID(ctx, p.ID)
}

const getPlaylistByID = `-- name: GetPlaylistByID` + selectPlaylist + `
WHERE p.id = $1
GROUP BY p.id
`

func (r *PlaylistRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Playlist, error) {
	return r.getOne(ctx, getPlaylistByID, id)
}

const listOwnerPlaylists = `-- name: ListOwnerPlaylists` + selectPlaylist + `
WHERE p.owner_id = $1
GROUP BY p.id
ORDER BY p.created_at DESC
`

func (r *PlaylistRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, listOwnerPlaylists, ownerID)
	playlists, err := pgx.CollectRows(rows, rowToPlaylist)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return playlists, nil
}

const updatePlaylist = `-- name: UpdatePlaylist
UPDATE playlists
SET name = $2, description = $3, updated_at = now()
WHERE id = $1
`

func (r *PlaylistRepo) Update(ctx context.Context, id uuid.UUID, name string, description string) (models.Playlist, error) {
	tag, err := r.DB.Exec(ctx, updatePlaylist, id, name, description)
	switch {
	case err != nil:
		return models.Playlist{}, fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return models.Playlist{}, apperrors.ErrPlaylistNotFound
	}

	return r.GetByID(ctx, id)
}

const deletePlaylist = `-- name: DeletePlaylist
DELETE FROM playlists WHERE id = $1
`

func (r *PlaylistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePlaylist, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrPlaylistNotFound
	default:
		return nil
	}
}

// Keep the order of provided ids
const addPlaylistVideos = `-- name: AddPlaylistVideos
INSERT INTO playlist_videos (playlist_id, video_id, added_at)
SELECT $1, v.id, now() + v.ord * interval '1 microsecond'
FROM unnest($2::uuid[]) WITH ORDINALITY AS v(id, ord)
ON CONFLICT (playlist_id, video_id) DO NOTHING
`

func (r *PlaylistRepo) AddVideos(ctx context.Context, id uuid.UUID, videoIDs []uuid.UUID) error {
	if len(videoIDs) == 0 {
		return nil
	}

	_, err := r.DB.Exec(ctx, addPlaylistVideos, id, videoIDs)
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return apperrors.ErrVideoNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const removePlaylistVideo = `-- name: RemovePlaylistVideo
DELETE FROM playlist_videos
WHERE playlist_id = $1 AND video_id = $2
`

func (r *PlaylistRepo) RemoveVideo(ctx context.Context, id uuid.UUID, videoID uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, removePlaylistVideo, id, videoID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PlaylistRepo) getOne(ctx context.Context, query string, args ...any) (models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, query, args...)
	playlist, err := pgx.CollectOneRow(rows, rowToPlaylist)

	switch {
	case err == nil:
		return playlist, nil
	case errors.Is(err, pgx.ErrNoRows):
		return playlist, apperrors.ErrPlaylistNotFound
	default:
		return playlist, fmt.Errorf("db error: %w", err)
	}
}

func rowToPlaylist(row pgx.CollectableRow) (models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(&p.ID, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.Name, &p.Description, &p.VideoIDs)
	return p, err
}
