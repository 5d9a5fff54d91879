package testutil

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/videohub/internal/db"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
)

// Return random free port on 127.0.0.1 address
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	addr := ln.Addr().(*net.TCPAddr)
	return addr.Port, nil
}

type PostgresContainer struct {
	DSN       string
	Pool      *pgxpool.Pool
	Terminate func()
}

// Start postgres container with migrated schema
// Skips the test if docker is not available. Call Terminate when tests are done
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, err := postgres.Run(t.Context(),
		"postgres:17-alpine",
		postgres.WithDatabase("videohub-test"),
		postgres.WithUsername("videohub"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "postgres container must start")

	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err, "postgres container must expose connection string")

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "schema must be migrated")

	return PostgresContainer{
		DSN:  dsn,
		Pool: pool,
		Terminate: func() {
			pool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

type dbtx interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Run testFunc inside transaction that is always rolled back
func WithTx(dbtx dbtx, t *testing.T, testFunc func(tx pgx.Tx)) {
	tx, err := dbtx.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		err := tx.Rollback(t.Context())
		require.NoError(t, err)
	}()

	testFunc(tx)
}

// Create account with predictable fields derived from username
func CreateAccount(t *testing.T, s repository.Storage, username string) models.Account {
	t.Helper()

	account, err := s.Account().Create(t.Context(), models.Account{
		Username:       username,
		Email:          username + "@example.com",
		FullName:       "Test " + username,
		Avatar:         models.Asset{URL: "http://storage.local/avatars/" + username, StorageID: "avatars/" + username},
		HashedPassword: "hashed-password",
	})
	require.NoError(t, err, "account should be created")

	return account
}

// Create published video owned by the account
func CreateVideo(t *testing.T, s repository.Storage, ownerID uuid.UUID, title string) models.Video {
	t.Helper()

	video, err := s.Video().Create(t.Context(), models.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: "description of " + title,
		Duration:    42,
		IsPublished: true,
		VideoFile:   models.Asset{URL: "http://storage.local/videos/" + title, StorageID: "videos/" + title},
		Thumbnail:   models.Asset{URL: "http://storage.local/thumbnails/" + title, StorageID: "thumbnails/" + title},
	})
	require.NoError(t, err, "video should be created")

	return video
}
