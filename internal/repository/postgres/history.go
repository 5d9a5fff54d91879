package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

type WatchHistoryRepo struct {
	DB DBTX
}

const recordWatch = `-- name: RecordWatch
INSERT INTO watch_history (account_id, video_id, watched_at)
VALUES ($1, $2, clock_timestamp())
ON CONFLICT (account_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
`

func (r *WatchHistoryRepo) Record(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, recordWatch, accountID, videoID)
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return apperrors.ErrVideoNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const listWatchedVideoIDs = `-- name: ListWatchedVideoIDs
SELECT video_id FROM watch_history
WHERE account_id = $1
ORDER BY watched_at DESC
`

func (r *WatchHistoryRepo) ListVideoIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	rows, _ := r.DB.Query(ctx, listWatchedVideoIDs, accountID)
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
