package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
)

type RelationRepo struct {
	DB DBTX
}

// Unique (subject_id, target_kind, target_id) constraint makes concurrent inserts safe
const insertRelation = `-- name: InsertRelation
INSERT INTO relations (subject_id, target_kind, target_id)
VALUES ($1, $2, $3)
ON CONFLICT ON CONSTRAINT relations_subject_target_uniq DO NOTHING
`

func (r *RelationRepo) Insert(ctx context.Context, subjectID uuid.UUID, target models.Target) (bool, error) {
	tag, err := r.DB.Exec(ctx, insertRelation, subjectID, string(target.Kind), target.ID)
	switch {
	case err == nil:
		return tag.RowsAffected() == 1, nil
	case isForeignKeyViolation(err):
		return false, apperrors.ErrAccountNotFound
	default:
		return false, fmt.Errorf("db error: %w", err)
	}
}

const deleteRelation = `-- name: DeleteRelation
DELETE FROM relations
WHERE subject_id = $1 AND target_kind = $2 AND target_id = $3
`

func (r *RelationRepo) Delete(ctx context.Context, subjectID uuid.UUID, target models.Target) (bool, error) {
	tag, err := r.DB.Exec(ctx, deleteRelation, subjectID, string(target.Kind), target.ID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

const relationExists = `-- name: RelationExists
SELECT EXISTS (
	SELECT 1 FROM relations
	WHERE subject_id = $1 AND target_kind = $2 AND target_id = $3
)
`

func (r *RelationRepo) Exists(ctx context.Context, subjectID uuid.UUID, target models.Target) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, relationExists, subjectID, string(target.Kind), target.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

const countRelations = `-- name: CountRelations
SELECT count(*) FROM relations
WHERE target_kind = $1 AND target_id = $2
`

func (r *RelationRepo) Count(ctx context.Context, target models.Target) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, countRelations, string(target.Kind), target.ID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

const countRelationsByTargets = `-- name: CountRelationsByTargets
SELECT count(*) FROM relations
WHERE target_kind = $1 AND target_id = ANY($2)
`

func (r *RelationRepo) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := r.DB.QueryRow(ctx, countRelationsByTargets, string(kind), ids).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

const listRelationSubjects = `-- name: ListRelationSubjects
SELECT a.id, a.username, a.full_name, a.avatar_url
FROM relations r
JOIN accounts a ON a.id = r.subject_id
WHERE r.target_kind = $1 AND r.target_id = $2
ORDER BY r.created_at DESC
`

func (r *RelationRepo) ListSubjects(ctx context.Context, target models.Target) ([]models.Profile, error) {
	rows, _ := r.DB.Query(ctx, listRelationSubjects, string(target.Kind), target.ID)
	profiles, err := pgx.CollectRows(rows, rowToProfile)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profiles, nil
}

const listRelationTargetIDs = `-- name: ListRelationTargetIDs
SELECT target_id FROM relations
WHERE subject_id = $1 AND target_kind = $2
ORDER BY created_at DESC
`

func (r *RelationRepo) ListTargetIDs(ctx context.Context, subjectID uuid.UUID, kind models.TargetKind) ([]uuid.UUID, error) {
	rows, _ := r.DB.Query(ctx, listRelationTargetIDs, subjectID, string(kind))
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

// One pass over the relations of the channel both as target and as subject
const channelSummary = `-- name: ChannelSummary
SELECT
	count(*) FILTER (WHERE target_id = $1),
	count(*) FILTER (WHERE subject_id = $1),
	coalesce(bool_or(subject_id = $2 AND target_id = $1), false)
FROM relations
WHERE target_kind = 'channel' AND (target_id = $1 OR subject_id = $1)
`

func (r *RelationRepo) ChannelSummary(ctx context.Context, channelID uuid.UUID, viewerID uuid.UUID) (models.ChannelSummary, error) {
	var s models.ChannelSummary
	err := r.DB.QueryRow(ctx, channelSummary, channelID, viewerID).Scan(&s.SubscribersCount, &s.SubscribedToCount, &s.IsSubscribed)
	if err != nil {
		return s, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func rowToProfile(row pgx.CollectableRow) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.FullName, &p.Avatar)
	return p, err
}
