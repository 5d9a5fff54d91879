package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/service/auth"
	"github.com/nkiryanov/videohub/internal/storage"
)

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string

	// Required
	Avatar storage.Upload

	// Optional, zero Body means no cover
	Cover storage.Upload
}

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
	objects storage.ObjectStorage
	logger  logger.Logger
}

func NewService(hasher auth.PasswordHasher, s repository.Storage, objects storage.ObjectStorage, l logger.Logger) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &UserService{
		hasher:  hasher,
		storage: s,
		objects: objects,
		logger:  l,
	}
}

// Register new account
// Files are uploaded before the account is stored and removed if it could not be stored
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.Account, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return models.Account{}, apperrors.Validation("all fields are required")
	}
	if in.Avatar.Body == nil {
		return models.Account{}, apperrors.Validation("avatar file is required")
	}

	if err := s.ensureFree(ctx, s.storage, in.Username, in.Email); err != nil {
		return models.Account{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	avatar, err := storage.Put(ctx, s.objects, storage.FolderAvatars, in.Avatar)
	if err != nil {
		return models.Account{}, fmt.Errorf("avatar upload failed. Err: %w", err)
	}
	uploaded := []models.Asset{avatar}

	var cover models.Asset
	if in.Cover.Body != nil {
		cover, err = storage.Put(ctx, s.objects, storage.FolderCovers, in.Cover)
		if err != nil {
			s.cleanup(uploaded...)
			return models.Account{}, fmt.Errorf("cover image upload failed. Err: %w", err)
		}
		uploaded = append(uploaded, cover)
	}

	var account models.Account
	err = s.storage.InTx(ctx, func(tx repository.Storage) error {
		if err := s.ensureFree(ctx, tx, in.Username, in.Email); err != nil {
			return err
		}

		account, err = tx.Account().Create(ctx, models.Account{
			Username:       in.Username,
			Email:          in.Email,
			FullName:       in.FullName,
			Avatar:         avatar,
			CoverImage:     cover,
			HashedPassword: hash,
		})
		return err
	})
	if err != nil {
		s.cleanup(uploaded...)
		return models.Account{}, fmt.Errorf("can't create user. Err: %w", err)
	}

	return account, nil
}

func (s *UserService) CurrentUser(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	return s.storage.Account().GetByID(ctx, accountID)
}

func (s *UserService) UpdateDetails(ctx context.Context, accountID uuid.UUID, fullName string, email string) (models.Account, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return models.Account{}, apperrors.Validation("all fields are required")
	}

	return s.storage.Account().UpdateDetails(ctx, accountID, fullName, email)
}

// Replace avatar. Old file is removed only after the account is updated
func (s *UserService) UpdateAvatar(ctx context.Context, accountID uuid.UUID, upload storage.Upload) (models.Account, error) {
	return s.replaceAsset(ctx, accountID, storage.FolderAvatars, upload,
		func(a models.Account) models.Asset { return a.Avatar },
		s.storage.Account().UpdateAvatar,
	)
}

// Replace cover image. Old file is removed only after the account is updated
func (s *UserService) UpdateCoverImage(ctx context.Context, accountID uuid.UUID, upload storage.Upload) (models.Account, error) {
	return s.replaceAsset(ctx, accountID, storage.FolderCovers, upload,
		func(a models.Account) models.Asset { return a.CoverImage },
		s.storage.Account().UpdateCoverImage,
	)
}

func (s *UserService) replaceAsset(
	ctx context.Context,
	accountID uuid.UUID,
	folder string,
	upload storage.Upload,
	current func(models.Account) models.Asset,
	update func(context.Context, uuid.UUID, models.Asset) (models.Account, error),
) (models.Account, error) {
	if upload.Body == nil {
		return models.Account{}, apperrors.Validation("file is required")
	}

	account, err := s.storage.Account().GetByID(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	old := current(account)

	asset, err := storage.Put(ctx, s.objects, folder, upload)
	if err != nil {
		return models.Account{}, fmt.Errorf("upload failed. Err: %w", err)
	}

	account, err = update(ctx, accountID, asset)
	if err != nil {
		s.cleanup(asset)
		return models.Account{}, err
	}

	s.cleanup(old)
	return account, nil
}

// Return apperrors.ErrAccountAlreadyExists if username or email taken
func (s *UserService) ensureFree(ctx context.Context, st repository.Storage, username string, email string) error {
	_, err := st.Account().GetByUsername(ctx, username)
	if err == nil {
		return apperrors.ErrAccountAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return err
	}

	_, err = st.Account().GetByEmail(ctx, email)
	if err == nil {
		return apperrors.ErrAccountAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return err
	}

	return nil
}

// Best effort removal of stored files
func (s *UserService) cleanup(assets ...models.Asset) {
	for _, a := range assets {
		if a.StorageID == "" {
			continue
		}
		if err := s.objects.Remove(context.Background(), a.StorageID); err != nil {
			s.logger.Warn("failed to remove stored object", "storage_id", a.StorageID, "error", err)
		}
	}
}
