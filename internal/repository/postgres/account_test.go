package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/testutil"
)

func Test_AccountRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newAccount := func(username string) models.Account {
		return models.Account{
			Username:       username,
			Email:          username + "@example.com",
			FullName:       "Full Name",
			Avatar:         models.Asset{URL: "http://avatar", StorageID: "avatars/1"},
			HashedPassword: "hashedpassword123",
		}
	}

	t.Run("create account ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}

			account, err := r.Create(t.Context(), newAccount("testuser"))

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, account.ID)
			assert.Equal(t, "testuser", account.Username)
			assert.Equal(t, "testuser@example.com", account.Email)
			assert.Equal(t, "hashedpassword123", account.HashedPassword)
			assert.Equal(t, models.Asset{URL: "http://avatar", StorageID: "avatars/1"}, account.Avatar)
			assert.True(t, account.CoverImage.IsZero(), "cover image is optional")
			assert.Nil(t, account.RefreshToken, "new account has no session")
			assert.WithinDuration(t, time.Now(), account.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create account conflict", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(a *models.Account)
		}{
			{"same username", func(a *models.Account) { a.Email = "other@example.com" }},
			{"same email", func(a *models.Account) { a.Username = "other" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
					r := AccountRepo{DB: tx}
					_, err := r.Create(t.Context(), newAccount("taken"))
					require.NoError(t, err)

					second := newAccount("taken")
					tt.modify(&second)
					_, err = r.Create(t.Context(), second)

					require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
				})
			})
		}
	})

	t.Run("get account", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}
			created, err := r.Create(t.Context(), newAccount("findme"))
			require.NoError(t, err)

			byID, err := r.GetByID(t.Context(), created.ID)
			require.NoError(t, err)
			byUsername, err := r.GetByUsername(t.Context(), "findme")
			require.NoError(t, err)
			byEmail, err := r.GetByEmail(t.Context(), "findme@example.com")
			require.NoError(t, err)

			assert.Equal(t, created, byID)
			assert.Equal(t, created, byUsername)
			assert.Equal(t, created, byEmail)
		})
	})

	t.Run("get account not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}

			_, err := r.GetByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrAccountNotFound, "should return well known error")

			_, err = r.GetByUsername(t.Context(), "nonexistentuser")
			assert.ErrorIs(t, err, apperrors.ErrAccountNotFound, "should return well known error")
		})
	})

	t.Run("list by ids skips unknown", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}
			a, err := r.Create(t.Context(), newAccount("alice"))
			require.NoError(t, err)
			b, err := r.Create(t.Context(), newAccount("bob"))
			require.NoError(t, err)

			got, err := r.ListByIDs(t.Context(), []uuid.UUID{a.ID, uuid.New(), b.ID})

			require.NoError(t, err)
			require.Len(t, got, 2)
		})
	})

	t.Run("refresh token", func(t *testing.T) {
		t.Run("set and swap", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				r := AccountRepo{DB: tx}
				a, err := r.Create(t.Context(), newAccount("session"))
				require.NoError(t, err)
				first := "first-token"

				err = r.SetRefreshToken(t.Context(), a.ID, &first)
				require.NoError(t, err)

				err = r.SwapRefreshToken(t.Context(), a.ID, "first-token", "second-token")
				require.NoError(t, err, "swap with current token should be ok")

				got, err := r.GetByID(t.Context(), a.ID)
				require.NoError(t, err)
				require.NotNil(t, got.RefreshToken)
				require.Equal(t, "second-token", *got.RefreshToken)
			})
		})

		t.Run("swap stale token", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				r := AccountRepo{DB: tx}
				a, err := r.Create(t.Context(), newAccount("stale"))
				require.NoError(t, err)
				current := "current"
				require.NoError(t, r.SetRefreshToken(t.Context(), a.ID, &current))

				err = r.SwapRefreshToken(t.Context(), a.ID, "stale", "new")

				require.ErrorIs(t, err, apperrors.ErrSessionRevoked)
			})
		})

		t.Run("swap cleared token", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				r := AccountRepo{DB: tx}
				a, err := r.Create(t.Context(), newAccount("cleared"))
				require.NoError(t, err)
				require.NoError(t, r.SetRefreshToken(t.Context(), a.ID, nil))

				err = r.SwapRefreshToken(t.Context(), a.ID, "whatever", "new")

				require.ErrorIs(t, err, apperrors.ErrSessionRevoked)
			})
		})

		t.Run("update password clears token", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				r := AccountRepo{DB: tx}
				a, err := r.Create(t.Context(), newAccount("changepwd"))
				require.NoError(t, err)
				token := "token"
				require.NoError(t, r.SetRefreshToken(t.Context(), a.ID, &token))

				err = r.UpdatePassword(t.Context(), a.ID, "new-hash")
				require.NoError(t, err)

				got, err := r.GetByID(t.Context(), a.ID)
				require.NoError(t, err)
				require.Equal(t, "new-hash", got.HashedPassword)
				require.Nil(t, got.RefreshToken)
			})
		})
	})

	t.Run("update details conflict", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}
			_, err := r.Create(t.Context(), newAccount("first"))
			require.NoError(t, err)
			second, err := r.Create(t.Context(), newAccount("second"))
			require.NoError(t, err)

			_, err = r.UpdateDetails(t.Context(), second.ID, "New Name", "first@example.com")

			require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
		})
	})

	t.Run("update avatar and cover", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := AccountRepo{DB: tx}
			a, err := r.Create(t.Context(), newAccount("assets"))
			require.NoError(t, err)

			got, err := r.UpdateAvatar(t.Context(), a.ID, models.Asset{URL: "http://new-avatar", StorageID: "avatars/2"})
			require.NoError(t, err)
			require.Equal(t, "avatars/2", got.Avatar.StorageID)

			got, err = r.UpdateCoverImage(t.Context(), a.ID, models.Asset{URL: "http://cover", StorageID: "covers/1"})
			require.NoError(t, err)
			require.Equal(t, "covers/1", got.CoverImage.StorageID)
			require.Equal(t, "avatars/2", got.Avatar.StorageID)
		})
	})
}
