package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
	"github.com/nkiryanov/videohub/internal/testutil"
)

func Test_ContentRepos(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("video", func(t *testing.T) {
		t.Run("get not found", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				_, err := (&VideoRepo{DB: tx}).GetByID(t.Context(), uuid.New())
				require.ErrorIs(t, err, apperrors.ErrVideoNotFound)
			})
		})

		t.Run("list with filter", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := NewStorage(tx)
				alice := testutil.CreateAccount(t, s, "alice")
				bob := testutil.CreateAccount(t, s, "bob")
				testutil.CreateVideo(t, s, alice.ID, "Go tutorial")
				testutil.CreateVideo(t, s, alice.ID, "Cooking pasta")
				testutil.CreateVideo(t, s, alice.ID, "Advanced go")
				testutil.CreateVideo(t, s, bob.ID, "Go for bob")
				r := VideoRepo{DB: tx}

				videos, total, err := r.List(t.Context(), models.VideoFilter{
					OwnerID:  alice.ID,
					Query:    "go",
					SortBy:   "title",
					SortDesc: false,
					Limit:    10,
				})

				require.NoError(t, err)
				require.EqualValues(t, 2, total)
				require.Len(t, videos, 2)
				assert.Equal(t, "Advanced go", videos[0].Title)
				assert.Equal(t, "Go tutorial", videos[1].Title)
			})
		})

		t.Run("list page past the end", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := NewStorage(tx)
				alice := testutil.CreateAccount(t, s, "alice")
				testutil.CreateVideo(t, s, alice.ID, "only")

				videos, total, err := (&VideoRepo{DB: tx}).List(t.Context(), models.VideoFilter{OwnerID: alice.ID, Limit: 10, Offset: 10})

				require.NoError(t, err)
				require.EqualValues(t, 1, total)
				require.Empty(t, videos)
			})
		})

		t.Run("unpublished hidden from published listing", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := NewStorage(tx)
				alice := testutil.CreateAccount(t, s, "alice")
				v := testutil.CreateVideo(t, s, alice.ID, "draft")
				r := VideoRepo{DB: tx}

				updated, err := r.SetPublished(t.Context(), v.ID, false)
				require.NoError(t, err)
				require.False(t, updated.IsPublished)

				_, total, err := r.List(t.Context(), models.VideoFilter{OwnerID: alice.ID, OnlyPublished: true, Limit: 10})
				require.NoError(t, err)
				require.EqualValues(t, 0, total)
			})
		})

		t.Run("views and owner stats", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := NewStorage(tx)
				alice := testutil.CreateAccount(t, s, "alice")
				v1 := testutil.CreateVideo(t, s, alice.ID, "v1")
				v2 := testutil.CreateVideo(t, s, alice.ID, "v2")
				r := VideoRepo{DB: tx}

				require.NoError(t, r.IncrementViews(t.Context(), v1.ID))
				require.NoError(t, r.IncrementViews(t.Context(), v1.ID))
				require.NoError(t, r.IncrementViews(t.Context(), v2.ID))

				videos, views, err := r.OwnerStats(t.Context(), alice.ID)
				require.NoError(t, err)
				require.EqualValues(t, 2, videos)
				require.EqualValues(t, 3, views)

				ids, err := r.ListIDsByOwner(t.Context(), alice.ID)
				require.NoError(t, err)
				require.ElementsMatch(t, []uuid.UUID{v1.ID, v2.ID}, ids)
			})
		})

		t.Run("delete removes likes", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := NewStorage(tx)
				alice := testutil.CreateAccount(t, s, "alice")
				v := testutil.CreateVideo(t, s, alice.ID, "doomed")
				target := models.Target{Kind: models.TargetVideo, ID: v.ID}
				_, err := s.Relation().Insert(t.Context(), alice.ID, target)
				require.NoError(t, err)

				err = s.Video().Delete(t.Context(), v.ID)
				require.NoError(t, err)

				count, err := s.Relation().Count(t.Context(), target)
				require.NoError(t, err)
				require.EqualValues(t, 0, count)

				err = s.Video().Delete(t.Context(), v.ID)
				require.ErrorIs(t, err, apperrors.ErrVideoNotFound)
			})
		})
	})

	t.Run("comment", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)
			alice := testutil.CreateAccount(t, s, "alice")
			v := testutil.CreateVideo(t, s, alice.ID, "commented")
			r := CommentRepo{DB: tx}

			for _, content := range []string{"first", "second", "third"} {
				_, err := r.Create(t.Context(), models.Comment{OwnerID: alice.ID, VideoID: v.ID, Content: content})
				require.NoError(t, err)
			}

			comments, total, err := r.ListByVideo(t.Context(), v.ID, 2, 0)
			require.NoError(t, err)
			require.EqualValues(t, 3, total)
			require.Len(t, comments, 2)

			updated, err := r.Update(t.Context(), comments[0].ID, "edited")
			require.NoError(t, err)
			require.Equal(t, "edited", updated.Content)

			require.NoError(t, r.Delete(t.Context(), comments[0].ID))
			_, err = r.GetByID(t.Context(), comments[0].ID)
			require.ErrorIs(t, err, apperrors.ErrCommentNotFound)

			_, err = r.Create(t.Context(), models.Comment{OwnerID: alice.ID, VideoID: uuid.New(), Content: "orphan"})
			require.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		})
	})

	t.Run("post", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)
			alice := testutil.CreateAccount(t, s, "alice")
			r := PostRepo{DB: tx}

			p, err := r.Create(t.Context(), models.Post{OwnerID: alice.ID, Content: "hello"})
			require.NoError(t, err)

			posts, total, err := r.ListByOwner(t.Context(), alice.ID, 10, 0)
			require.NoError(t, err)
			require.EqualValues(t, 1, total)
			require.Equal(t, p, posts[0])

			require.NoError(t, r.Delete(t.Context(), p.ID))
			require.ErrorIs(t, r.Delete(t.Context(), p.ID), apperrors.ErrPostNotFound)
		})
	})

	t.Run("playlist", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)
			alice := testutil.CreateAccount(t, s, "alice")
			v1 := testutil.CreateVideo(t, s, alice.ID, "v1")
			v2 := testutil.CreateVideo(t, s, alice.ID, "v2")
			v3 := testutil.CreateVideo(t, s, alice.ID, "v3")
			r := PlaylistRepo{DB: tx}

			p, err := r.Create(t.Context(), models.Playlist{
				OwnerID:  alice.ID,
				Name:     "favourites",
				VideoIDs: []uuid.UUID{v2.ID, v1.ID},
			})
			require.NoError(t, err)
			require.Equal(t, []uuid.UUID{v2.ID, v1.ID}, p.VideoIDs, "order of provided videos is kept")

			err = r.AddVideos(t.Context(), p.ID, []uuid.UUID{v1.ID, v3.ID})
			require.NoError(t, err)

			got, err := r.GetByID(t.Context(), p.ID)
			require.NoError(t, err)
			require.Equal(t, []uuid.UUID{v2.ID, v1.ID, v3.ID}, got.VideoIDs, "already added video is skipped")

			removed, err := r.RemoveVideo(t.Context(), p.ID, v2.ID)
			require.NoError(t, err)
			require.True(t, removed)
			removed, err = r.RemoveVideo(t.Context(), p.ID, v2.ID)
			require.NoError(t, err)
			require.False(t, removed)

			empty, err := r.Create(t.Context(), models.Playlist{OwnerID: alice.ID, Name: "empty"})
			require.NoError(t, err)
			require.Empty(t, empty.VideoIDs)

			list, err := r.ListByOwner(t.Context(), alice.ID)
			require.NoError(t, err)
			require.Len(t, list, 2)

			require.NoError(t, r.Delete(t.Context(), p.ID))
			_, err = r.GetByID(t.Context(), p.ID)
			require.ErrorIs(t, err, apperrors.ErrPlaylistNotFound)
		})
	})

	t.Run("watch history", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)
			alice := testutil.CreateAccount(t, s, "alice")
			v1 := testutil.CreateVideo(t, s, alice.ID, "v1")
			v2 := testutil.CreateVideo(t, s, alice.ID, "v2")
			r := WatchHistoryRepo{DB: tx}

			require.NoError(t, r.Record(t.Context(), alice.ID, v1.ID))
			require.NoError(t, r.Record(t.Context(), alice.ID, v2.ID))
			require.NoError(t, r.Record(t.Context(), alice.ID, v1.ID))

			ids, err := r.ListVideoIDs(t.Context(), alice.ID)
			require.NoError(t, err)
			require.Equal(t, []uuid.UUID{v1.ID, v2.ID}, ids, "rewatched video moves to the front")
		})
	})

	t.Run("storage in tx rollback", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)

			err := s.InTx(t.Context(), func(inner repository.Storage) error {
				testutil.CreateAccount(t, inner, "ghost")
				return errors.New("abort")
			})
			require.Error(t, err)

			_, err = s.Account().GetByUsername(t.Context(), "ghost")
			require.ErrorIs(t, err, apperrors.ErrAccountNotFound, "account must be rolled back")
		})
	})
}
