package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkiryanov/videohub/internal/handlers/middleware"
	"github.com/nkiryanov/videohub/internal/handlers/render"
	"github.com/nkiryanov/videohub/internal/logger"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/service/content"
	"github.com/nkiryanov/videohub/internal/service/paginate"
	"github.com/nkiryanov/videohub/internal/service/user"
	"github.com/nkiryanov/videohub/internal/storage"
)

// Services used by handlers
type Services struct {
	Auth       authService
	Users      userService
	Relations  relationService
	Aggregates aggregateService
	Videos     videoService
	Comments   commentService
	Posts      postService
	Playlists  playlistService
}

type Options struct {
	// Origins allowed to make credentialed cross-origin requests
	CORSOrigins []string

	// Limits login, register and refresh attempts per client IP
	// Default: 10 requests per minute with burst 5
	AuthLimiter middleware.RateLimiter
}

func NewRouter(s Services, opts Options, l logger.Logger) http.Handler {
	if opts.AuthLimiter == nil {
		opts.AuthLimiter = middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute)
	}

	auth := middleware.NewAuth(s.Auth)
	limited := middleware.RateLimit(opts.AuthLimiter)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggerMiddleware(l))
	r.Use(middleware.Recoverer(l))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", handleHealthcheck())

		r.Route("/users", func(r chi.Router) {
			r.With(limited).Post("/register", handleRegister(s.Users, l))
			r.With(limited).Post("/login", handleLogin(s.Auth, l))
			r.With(limited).Post("/refresh-token", handleRefresh(s.Auth, l))
			r.With(auth.Optional).Get("/c/{username}", handleChannelProfile(s.Aggregates, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/logout", handleLogout(s.Auth, l))
				r.Post("/change-password", handleChangePassword(s.Auth, l))
				r.Get("/current-user", handleCurrentUser(s.Users, l))
				r.Patch("/update-account", handleUpdateAccount(s.Users, l))
				r.Patch("/avatar", handleUpdateAvatar(s.Users, l))
				r.Patch("/cover-image", handleUpdateCoverImage(s.Users, l))
				r.Get("/history", handleWatchHistory(s.Aggregates, l))
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.With(auth.Optional).Get("/", handleListVideos(s.Videos, l))
			r.With(auth.Optional).Get("/{videoID}", handleGetVideo(s.Videos, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/", handlePublishVideo(s.Videos, l))
				r.Patch("/{videoID}", handleUpdateVideo(s.Videos, l))
				r.Delete("/{videoID}", handleDeleteVideo(s.Videos, l))
				r.Patch("/toggle/publish/{videoID}", handleTogglePublish(s.Videos, l))
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoID}", handleListComments(s.Comments, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/{videoID}", handleAddComment(s.Comments, l))
				r.Patch("/c/{commentID}", handleUpdateComment(s.Comments, l))
				r.Delete("/c/{commentID}", handleDeleteComment(s.Comments, l))
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/user/{userID}", handleListPosts(s.Posts, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/", handleCreatePost(s.Posts, l))
				r.Patch("/{postID}", handleUpdatePost(s.Posts, l))
				r.Delete("/{postID}", handleDeletePost(s.Posts, l))
			})
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/{playlistID}", handleGetPlaylist(s.Playlists, l))
			r.Get("/user/{userID}", handleListPlaylists(s.Playlists, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/", handleCreatePlaylist(s.Playlists, l))
				r.Patch("/{playlistID}", handleUpdatePlaylist(s.Playlists, l))
				r.Delete("/{playlistID}", handleDeletePlaylist(s.Playlists, l))
				r.Patch("/add/{videoID}/{playlistID}", handleAddToPlaylist(s.Playlists, l))
				r.Patch("/remove/{videoID}/{playlistID}", handleRemoveFromPlaylist(s.Playlists, l))
			})
		})

		r.Route("/likes", func(r chi.Router) {
			r.Get("/{kind:[vcp]}/{targetID}", handleLikeSummary(s.Aggregates, l))

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)
				r.Post("/toggle/{kind:[vcp]}/{targetID}", handleToggleLike(s.Relations, l))
				r.Get("/videos", handleLikedVideos(s.Aggregates, l))
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.With(auth.Optional).Get("/c/{channelID}", handleSubscribers(s.Aggregates, l))
			r.Get("/u/{subscriberID}", handleSubscribedChannels(s.Aggregates, l))
			r.With(auth.Required).Post("/c/{channelID}", handleToggleSubscription(s.Relations, l))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(auth.Required)
			r.Get("/stats", handleDashboardStats(s.Aggregates, l))
			r.Get("/videos", handleDashboardVideos(s.Videos, l))
		})
	})

	return r
}

type authService interface {
	// Login by username or email
	// Has to return apperrors.ErrInvalidCredential if account not found or password mismatch
	Login(ctx context.Context, identifier string, password string) (models.Account, models.TokenPair, error)

	// Rotate refresh token
	// Has to return apperrors.ErrSessionRevoked if token was already used or session closed
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	Logout(ctx context.Context, accountID uuid.UUID) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword string, newPassword string) error

	// Get request and return account if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.Account, error)

	SetTokens(w http.ResponseWriter, pair models.TokenPair)
	ClearTokens(w http.ResponseWriter)
	GetRefresh(r *http.Request) (string, error)
}

type userService interface {
	Register(ctx context.Context, in user.RegisterInput) (models.Account, error)
	CurrentUser(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	UpdateDetails(ctx context.Context, accountID uuid.UUID, fullName string, email string) (models.Account, error)
	UpdateAvatar(ctx context.Context, accountID uuid.UUID, upload storage.Upload) (models.Account, error)
	UpdateCoverImage(ctx context.Context, accountID uuid.UUID, upload storage.Upload) (models.Account, error)
}

type relationService interface {
	Toggle(ctx context.Context, subjectID uuid.UUID, target models.Target) (models.ToggleState, error)
}

type aggregateService interface {
	ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error)
	WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.VideoWithOwner, error)
	LikedVideos(ctx context.Context, accountID uuid.UUID) ([]models.VideoWithOwner, error)
	SubscribedChannels(ctx context.Context, accountID uuid.UUID) ([]models.Profile, error)
	Subscribers(ctx context.Context, channelID uuid.UUID, viewerID uuid.UUID) ([]models.Subscriber, error)
	LikeSummary(ctx context.Context, target models.Target) (models.LikeSummary, error)
}

type videoService interface {
	Publish(ctx context.Context, ownerID uuid.UUID, in content.PublishInput) (models.Video, error)
	Get(ctx context.Context, videoID uuid.UUID, viewerID uuid.UUID) (models.VideoWithOwner, error)
	List(ctx context.Context, q content.ListVideosQuery, viewerID uuid.UUID) (paginate.Page[models.VideoWithOwner], error)
	Update(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID, in content.UpdateVideoInput) (models.Video, error)
	Delete(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) error
	TogglePublish(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) (models.Video, error)
}

type commentService interface {
	Add(ctx context.Context, ownerID uuid.UUID, videoID uuid.UUID, content string) (models.Comment, error)
	Update(ctx context.Context, accountID uuid.UUID, commentID uuid.UUID, content string) (models.Comment, error)
	Delete(ctx context.Context, accountID uuid.UUID, commentID uuid.UUID) error
	List(ctx context.Context, videoID uuid.UUID, p paginate.Params) (paginate.Page[models.Comment], error)
}

type postService interface {
	Create(ctx context.Context, ownerID uuid.UUID, content string) (models.Post, error)
	Update(ctx context.Context, accountID uuid.UUID, postID uuid.UUID, content string) (models.Post, error)
	Delete(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p paginate.Params) (paginate.Page[models.Post], error)
}

type playlistService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, description string, videoIDs []uuid.UUID) (models.Playlist, error)
	Get(ctx context.Context, playlistID uuid.UUID) (models.PlaylistDetails, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	AddVideos(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, videoIDs []uuid.UUID) (models.Playlist, error)
	RemoveVideo(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, videoID uuid.UUID) (models.Playlist, error)
	Update(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID, name string, description string) (models.Playlist, error)
	Delete(ctx context.Context, accountID uuid.UUID, playlistID uuid.UUID) error
}
