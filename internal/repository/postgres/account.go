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

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, created_at, updated_at, username, email, full_name,
	avatar_url, avatar_storage_id, cover_url, cover_storage_id, password_hash, refresh_token`

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, created_at, updated_at, username, email, full_name,
	avatar_url, avatar_storage_id, cover_url, cover_storage_id, password_hash)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + accountColumns

func (r *AccountRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()

	rows, _ := r.DB.Query(ctx, createAccount,
		a.ID, now, a.Username, a.Email, a.FullName,
		a.Avatar.URL, a.Avatar.StorageID, a.CoverImage.URL, a.CoverImage.StorageID,
		a.HashedPassword,
	)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case isUniqueViolation(err):
		return account, apperrors.ErrAccountAlreadyExists
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const getAccountByID = `-- name: GetAccountByID
SELECT ` + accountColumns + ` FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	return r.getOne(ctx, getAccountByID, id)
}

const getAccountByUsername = `-- name: GetAccountByUsername
SELECT ` + accountColumns + ` FROM accounts
WHERE username = $1
`

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	return r.getOne(ctx, getAccountByUsername, username)
}

const getAccountByEmail = `-- name: GetAccountByEmail
SELECT ` + accountColumns + ` FROM accounts
WHERE email = $1
`

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.getOne(ctx, getAccountByEmail, email)
}

const listAccountsByIDs = `-- name: ListAccountsByIDs
SELECT ` + accountColumns + ` FROM accounts
WHERE id = ANY($1)
`

func (r *AccountRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Account, error) {
	if len(ids) == 0 {
		return []models.Account{}, nil
	}

	rows, _ := r.DB.Query(ctx, listAccountsByIDs, ids)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

const setRefreshToken = `-- name: SetRefreshToken
UPDATE accounts
SET refresh_token = $2
WHERE id = $1
`

func (r *AccountRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	tag, err := r.DB.Exec(ctx, setRefreshToken, id, token)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrAccountNotFound
	default:
		return nil
	}
}

// Compare and swap: only one of concurrent refreshes with the same token wins
const swapRefreshToken = `-- name: SwapRefreshToken
UPDATE accounts
SET refresh_token = $3
WHERE id = $1 AND refresh_token = $2
`

func (r *AccountRepo) SwapRefreshToken(ctx context.Context, id uuid.UUID, old string, new string) error {
	tag, err := r.DB.Exec(ctx, swapRefreshToken, id, old, new)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrSessionRevoked
	default:
		return nil
	}
}

const updatePassword = `-- name: UpdatePassword
UPDATE accounts
SET password_hash = $2, refresh_token = NULL, updated_at = now()
WHERE id = $1
`

func (r *AccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	tag, err := r.DB.Exec(ctx, updatePassword, id, hashedPassword)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrAccountNotFound
	default:
		return nil
	}
}

const updateDetails = `-- name: UpdateDetails
UPDATE accounts
SET full_name = $2, email = $3, updated_at = now()
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateDetails(ctx context.Context, id uuid.UUID, fullName string, email string) (models.Account, error) {
	account, err := r.getOne(ctx, updateDetails, id, fullName, email)
	if isUniqueViolation(err) {
		return account, apperrors.ErrAccountAlreadyExists
	}
	return account, err
}

const updateAvatar = `-- name: UpdateAvatar
UPDATE accounts
SET avatar_url = $2, avatar_storage_id = $3, updated_at = now()
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar models.Asset) (models.Account, error) {
	return r.getOne(ctx, updateAvatar, id, avatar.URL, avatar.StorageID)
}

const updateCoverImage = `-- name: UpdateCoverImage
UPDATE accounts
SET cover_url = $2, cover_storage_id = $3, updated_at = now()
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateCoverImage(ctx context.Context, id uuid.UUID, cover models.Asset) (models.Account, error) {
	return r.getOne(ctx, updateCoverImage, id, cover.URL, cover.StorageID)
}

func (r *AccountRepo) getOne(ctx context.Context, query string, args ...any) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, query, args...)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Username, &a.Email, &a.FullName,
		&a.Avatar.URL, &a.Avatar.StorageID, &a.CoverImage.URL, &a.CoverImage.StorageID,
		&a.HashedPassword, &a.RefreshToken,
	)
	return a, err
}
