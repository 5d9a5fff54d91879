package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/repository/postgres"
	"github.com/nkiryanov/videohub/internal/service/auth"
	"github.com/nkiryanov/videohub/internal/storage"
	"github.com/nkiryanov/videohub/internal/testutil"
)

// Fails every store after the first 'allowed' ones
type flakyStorage struct {
	*storage.MemoryStorage
	allowed int
}

func (s *flakyStorage) Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) (models.Asset, error) {
	if s.allowed == 0 {
		return models.Asset{}, errors.New("storage unavailable")
	}
	s.allowed--
	return s.MemoryStorage.Store(ctx, key, r, size, contentType)
}

func upload(name string) storage.Upload {
	return storage.Upload{Filename: name, ContentType: "image/png", Size: int64(len(name)), Body: strings.NewReader(name)}
}

func TestUser(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}

	// Helper function to create UserService within transaction
	inTx := func(t *testing.T, objects storage.ObjectStorage, fn func(s *UserService, st repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			st := postgres.NewStorage(tx)
			fn(NewService(hasher, st, objects, nil), st)
		})
	}

	validInput := func() RegisterInput {
		return RegisterInput{
			Username: "NKiryanov",
			Email:    "Nikita@Example.com",
			FullName: " Nikita Kiryanov ",
			Password: "Passw0rd!",
			Avatar:   upload("avatar.png"),
		}
	}

	t.Run("Register", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			objects := storage.NewMemoryStorage()
			inTx(t, objects, func(s *UserService, _ repository.Storage) {
				account, err := s.Register(t.Context(), validInput())

				require.NoError(t, err, "creating new user should be ok")
				require.NotEqual(t, uuid.Nil, account.ID, "user ID should not be empty")
				require.Equal(t, "nkiryanov", account.Username, "username should be case folded")
				require.Equal(t, "nikita@example.com", account.Email, "email should be case folded")
				require.Equal(t, "Nikita Kiryanov", account.FullName)
				require.NotEqual(t, "Passw0rd!", account.HashedPassword, "password should be hashed")
				require.NoError(t, hasher.Compare(account.HashedPassword, "Passw0rd!"))
				require.True(t, objects.Has(account.Avatar.StorageID), "avatar should be stored")
				require.True(t, account.CoverImage.IsZero(), "cover is optional")
				require.Nil(t, account.RefreshToken, "registration does not log in")
			})
		})

		t.Run("with cover", func(t *testing.T) {
			objects := storage.NewMemoryStorage()
			inTx(t, objects, func(s *UserService, _ repository.Storage) {
				in := validInput()
				in.Cover = upload("cover.png")

				account, err := s.Register(t.Context(), in)

				require.NoError(t, err)
				require.True(t, objects.Has(account.CoverImage.StorageID))
				require.Equal(t, 2, objects.Len())
			})
		})

		t.Run("fail if username or email taken", func(t *testing.T) {
			tests := []struct {
				name     string
				username string
				email    string
			}{
				{"same username", "nkiryanov", "other@example.com"},
				{"same email", "other", "NIKITA@example.com"},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					objects := storage.NewMemoryStorage()
					inTx(t, objects, func(s *UserService, _ repository.Storage) {
						_, err := s.Register(t.Context(), validInput())
						require.NoError(t, err)

						in := validInput()
						in.Username, in.Email = tt.username, tt.email
						in.Avatar = upload("second.png")
						_, err = s.Register(t.Context(), in)

						require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
						require.Equal(t, 1, objects.Len(), "nothing should be uploaded for rejected account")
					})
				})
			}
		})

		t.Run("fail without avatar", func(t *testing.T) {
			inTx(t, storage.NewMemoryStorage(), func(s *UserService, _ repository.Storage) {
				in := validInput()
				in.Avatar = storage.Upload{}

				_, err := s.Register(t.Context(), in)

				require.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
			})
		})

		t.Run("fail if field empty", func(t *testing.T) {
			inTx(t, storage.NewMemoryStorage(), func(s *UserService, _ repository.Storage) {
				in := validInput()
				in.FullName = "   "

				_, err := s.Register(t.Context(), in)

				require.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
			})
		})

		t.Run("avatar removed if cover upload failed", func(t *testing.T) {
			objects := &flakyStorage{MemoryStorage: storage.NewMemoryStorage(), allowed: 1}
			inTx(t, objects, func(s *UserService, st repository.Storage) {
				in := validInput()
				in.Cover = upload("cover.png")

				_, err := s.Register(t.Context(), in)

				require.Error(t, err)
				require.Equal(t, 0, objects.Len(), "uploaded avatar should be removed")
				_, err = st.Account().GetByUsername(t.Context(), "nkiryanov")
				require.ErrorIs(t, err, apperrors.ErrAccountNotFound, "account should not be created")
			})
		})
	})

	t.Run("UpdateDetails", func(t *testing.T) {
		inTx(t, storage.NewMemoryStorage(), func(s *UserService, st repository.Storage) {
			account, err := s.Register(t.Context(), validInput())
			require.NoError(t, err)
			other := testutil.CreateAccount(t, st, "other")

			updated, err := s.UpdateDetails(t.Context(), account.ID, "New Name", "New@Example.com")
			require.NoError(t, err)
			require.Equal(t, "New Name", updated.FullName)
			require.Equal(t, "new@example.com", updated.Email)

			_, err = s.UpdateDetails(t.Context(), account.ID, "New Name", other.Email)
			require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
		})
	})

	t.Run("UpdateAvatar", func(t *testing.T) {
		t.Run("old avatar removed", func(t *testing.T) {
			objects := storage.NewMemoryStorage()
			inTx(t, objects, func(s *UserService, _ repository.Storage) {
				account, err := s.Register(t.Context(), validInput())
				require.NoError(t, err)

				updated, err := s.UpdateAvatar(t.Context(), account.ID, upload("new.png"))

				require.NoError(t, err)
				require.NotEqual(t, account.Avatar, updated.Avatar)
				require.True(t, objects.Has(updated.Avatar.StorageID))
				require.False(t, objects.Has(account.Avatar.StorageID), "old avatar should be removed")
			})
		})

		t.Run("fail if account not exists", func(t *testing.T) {
			objects := storage.NewMemoryStorage()
			inTx(t, objects, func(s *UserService, _ repository.Storage) {
				_, err := s.UpdateAvatar(t.Context(), uuid.New(), upload("new.png"))

				require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
				require.Equal(t, 0, objects.Len())
			})
		})
	})

	t.Run("UpdateCoverImage", func(t *testing.T) {
		objects := storage.NewMemoryStorage()
		inTx(t, objects, func(s *UserService, _ repository.Storage) {
			account, err := s.Register(t.Context(), validInput())
			require.NoError(t, err)

			updated, err := s.UpdateCoverImage(t.Context(), account.ID, upload("cover.png"))

			require.NoError(t, err)
			require.True(t, objects.Has(updated.CoverImage.StorageID))
			require.Equal(t, account.Avatar, updated.Avatar, "avatar untouched")
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		inTx(t, storage.NewMemoryStorage(), func(s *UserService, st repository.Storage) {
			account := testutil.CreateAccount(t, st, "current")

			got, err := s.CurrentUser(t.Context(), account.ID)

			require.NoError(t, err)
			require.Equal(t, account.Username, got.Username)
		})
	})
}
