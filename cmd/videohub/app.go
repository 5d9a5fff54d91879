package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nkiryanov/videohub/internal/cache"
	"github.com/nkiryanov/videohub/internal/db"
	"github.com/nkiryanov/videohub/internal/handlers"
	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/repository/postgres"
	"github.com/nkiryanov/videohub/internal/service/aggregate"
	"github.com/nkiryanov/videohub/internal/service/auth"
	"github.com/nkiryanov/videohub/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/videohub/internal/service/content"
	"github.com/nkiryanov/videohub/internal/service/relation"
	"github.com/nkiryanov/videohub/internal/service/user"
	"github.com/nkiryanov/videohub/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(logger.Options{
		Environment: c.Environment,
		Level:       c.LogLevel,
		Service:     "videohub",
	})
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}
	render.SetDebug(c.Environment != logger.EnvProduction)

	app := &ServerApp{ListenAddr: c.ListenAddr, logger: l}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	app.closers = append(app.closers, pool.Close)

	objects, err := newObjectStorage(ctx, c.Minio, l)
	if err != nil {
		app.Close()
		return nil, err
	}

	videoCache, err := app.newVideoCache(ctx, c.RedisAddr)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize repositories
	st := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{InsecureCookies: !c.CookieSecure}, tokenManager, st.Account())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	loader := cache.NewVideoLoader(videoCache, cache.DefaultTTL, l)

	app.Handler = handlers.NewRouter(handlers.Services{
		Auth:       authService,
		Users:      user.NewService(auth.DefaultHasher, st, objects, l),
		Relations:  relation.NewService(st),
		Aggregates: aggregate.NewService(st),
		Videos:     content.NewVideoService(st, objects, loader, l),
		Comments:   content.NewCommentService(st),
		Posts:      content.NewPostService(st),
		Playlists:  content.NewPlaylistService(st),
	}, handlers.Options{
		CORSOrigins: c.CORSOrigins,
	}, l)

	return app, nil
}

func newObjectStorage(ctx context.Context, c MinioConfig, l logger.Logger) (storage.ObjectStorage, error) {
	if c.Endpoint == "" {
		l.Warn("MinIO endpoint is not set, uploaded files are kept in memory")
		return storage.NewMemoryStorage(), nil
	}

	objects, err := storage.NewMinioStorage(ctx, storage.Config{
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Bucket:    c.Bucket,
		UseSSL:    c.UseSSL,
		PublicURL: c.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while connecting to object storage. Err: %w", err)
	}
	return objects, nil
}

func (s *ServerApp) newVideoCache(ctx context.Context, addr string) (cache.VideoCache, error) {
	if addr == "" {
		s.logger.Info("Redis address is not set, video cache disabled")
		return cache.NoopVideoCache{}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis is not reachable. Err: %w", err)
	}
	s.closers = append(s.closers, func() { _ = client.Close() })

	return cache.NewRedisVideoCache(client), nil
}

// Release connections in reverse order of creation
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.Close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
