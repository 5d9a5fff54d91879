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

type PostRepo struct {
	DB DBTX
}

const postColumns = `id, owner_id, created_at, updated_at, content`

const createPost = `-- name: CreatePost
INSERT INTO posts (id, owner_id, created_at, updated_at, content)
VALUES ($1, $2, $3, $3, $4)
RETURNING ` + postColumns

func (r *PostRepo) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createPost, p.ID, p.OwnerID, time.Now(), p.Content)
	post, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const getPostByID = `-- name: GetPostByID
SELECT ` + postColumns + ` FROM posts
WHERE id = $1
`

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	return r.getOne(ctx, getPostByID, id)
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET content = $2, updated_at = now()
WHERE id = $1
RETURNING ` + postColumns

func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, content string) (models.Post, error) {
	return r.getOne(ctx, updatePost, id, content)
}

const deletePost = `-- name: DeletePost
WITH deleted_likes AS (
	DELETE FROM relations
	WHERE target_kind = 'post' AND target_id = $1
)
DELETE FROM posts WHERE id = $1
`

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrPostNotFound
	default:
		return nil
	}
}

const countOwnerPosts = `-- name: CountOwnerPosts
SELECT count(*) FROM posts
WHERE owner_id = $1
`

const listOwnerPosts = `-- name: ListOwnerPosts
SELECT ` + postColumns + ` FROM posts
WHERE owner_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

func (r *PostRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, countOwnerPosts, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	rows, _ := r.DB.Query(ctx, listOwnerPosts, ownerID, limit, offset)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return posts, total, nil
}

func (r *PostRepo) getOne(ctx context.Context, query string, args ...any) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, query, args...)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.Content)
	return p, err
}
