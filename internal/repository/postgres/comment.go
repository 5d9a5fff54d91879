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

type CommentRepo struct {
	DB DBTX
}

const commentColumns = `id, owner_id, video_id, created_at, updated_at, content`

const createComment = `-- name: CreateComment
INSERT INTO comments (id, owner_id, video_id, created_at, updated_at, content)
VALUES ($1, $2, $3, $4, $4, $5)
RETURNING ` + commentColumns

func (r *CommentRepo) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createComment, c.ID, c.OwnerID, c.VideoID, time.Now(), c.Content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case isForeignKeyViolation(err):
		return comment, apperrors.ErrVideoNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

const getCommentByID = `-- name: GetCommentByID
SELECT ` + commentColumns + ` FROM comments
WHERE id = $1
`

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	return r.getOne(ctx, getCommentByID, id)
}

const updateComment = `-- name: UpdateComment
UPDATE comments
SET content = $2, updated_at = now()
WHERE id = $1
RETURNING ` + commentColumns

func (r *CommentRepo) Update(ctx context.Context, id uuid.UUID, content string) (models.Comment, error) {
	return r.getOne(ctx, updateComment, id, content)
}

const deleteComment = `-- name: DeleteComment
WITH deleted_likes AS (
	DELETE FROM relations
	WHERE target_kind = 'comment' AND target_id = $1
)
DELETE FROM comments WHERE id = $1
`

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteComment, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrCommentNotFound
	default:
		return nil
	}
}

const countVideoComments = `-- name: CountVideoComments
SELECT count(*) FROM comments
WHERE video_id = $1
`

const listVideoComments = `-- name: ListVideoComments
SELECT ` + commentColumns + ` FROM comments
WHERE video_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

func (r *CommentRepo) ListByVideo(ctx context.Context, videoID uuid.UUID, limit int, offset int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, countVideoComments, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	rows, _ := r.DB.Query(ctx, listVideoComments, videoID, limit, offset)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return comments, total, nil
}

func (r *CommentRepo) getOne(ctx context.Context, query string, args ...any) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, query, args...)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, apperrors.ErrCommentNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.OwnerID, &c.VideoID, &c.CreatedAt, &c.UpdatedAt, &c.Content)
	return c, err
}
