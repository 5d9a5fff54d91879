package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/models"
)

// Account repository interface
type AccountRepo interface {
	// Create account
	// If account with the username or email exists has to return apperrors.ErrAccountAlreadyExists
	Create(ctx context.Context, account models.Account) (models.Account, error)

	// Get account by it's id, username or email
	// If account not found must return apperrors.ErrAccountNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)

	// Return accounts with provided ids in any order. Unknown ids are skipped
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Account, error)

	// Overwrite stored refresh token. Nil clears it
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// Replace stored refresh token only if it still equals 'old'
	// Must return apperrors.ErrSessionRevoked if it does not
	SwapRefreshToken(ctx context.Context, id uuid.UUID, old string, new string) error

	// Set new password hash and clear refresh token
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	UpdateDetails(ctx context.Context, id uuid.UUID, fullName string, email string) (models.Account, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar models.Asset) (models.Account, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, cover models.Asset) (models.Account, error)
}

// Relation repository interface (likes and subscriptions)
type RelationRepo interface {
	// Insert relation if not exists. Return false if it already existed
	Insert(ctx context.Context, subjectID uuid.UUID, target models.Target) (inserted bool, err error)

	// Delete relation. Return false if nothing was deleted
	Delete(ctx context.Context, subjectID uuid.UUID, target models.Target) (deleted bool, err error)

	Exists(ctx context.Context, subjectID uuid.UUID, target models.Target) (bool, error)
	Count(ctx context.Context, target models.Target) (int64, error)

	// Count relations pointing to any of the targets of the kind
	CountByTargets(ctx context.Context, kind models.TargetKind, ids []uuid.UUID) (int64, error)

	// Profiles of subjects related to the target, newest first
	ListSubjects(ctx context.Context, target models.Target) ([]models.Profile, error)

	// Ids of targets of the kind the subject related to, newest first
	ListTargetIDs(ctx context.Context, subjectID uuid.UUID, kind models.TargetKind) ([]uuid.UUID, error)

	// Subscriber counts of the channel and whether viewer is subscribed to it
	ChannelSummary(ctx context.Context, channelID uuid.UUID, viewerID uuid.UUID) (models.ChannelSummary, error)
}

type VideoRepo interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Video, error)

	// Return videos with provided ids in any order. Unknown ids are skipped
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Video, error)

	// Return page of videos matching the filter and total number of matching videos
	List(ctx context.Context, filter models.VideoFilter) ([]models.Video, int64, error)

	// Update title, description and assets
	Update(ctx context.Context, video models.Video) (models.Video, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (models.Video, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Number of videos and sum of their views
	OwnerStats(ctx context.Context, ownerID uuid.UUID) (videos int64, views int64, err error)

	// Ids of all videos of the owner
	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

type CommentRepo interface {
	Create(ctx context.Context, comment models.Comment) (models.Comment, error)

	// If comment not found must return apperrors.ErrCommentNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByVideo(ctx context.Context, videoID uuid.UUID, limit int, offset int) ([]models.Comment, int64, error)
}

type PostRepo interface {
	Create(ctx context.Context, post models.Post) (models.Post, error)

	// If post not found must return apperrors.ErrPostNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Post, error)
	Update(ctx context.Context, id uuid.UUID, content string) (models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int, offset int) ([]models.Post, int64, error)
}

type PlaylistRepo interface {
	// Create playlist together with it's videos
	Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error)

	// If playlist not found must return apperrors.ErrPlaylistNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error)
	Update(ctx context.Context, id uuid.UUID, name string, description string) (models.Playlist, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Add videos, already added ones are skipped
	AddVideos(ctx context.Context, id uuid.UUID, videoIDs []uuid.UUID) error

	// Return false if the video was not in the playlist
	RemoveVideo(ctx context.Context, id uuid.UUID, videoID uuid.UUID) (bool, error)
}

type WatchHistoryRepo interface {
	// Record video as watched now. Rewatch moves it to the front
	Record(ctx context.Context, accountID uuid.UUID, videoID uuid.UUID) error

	// Watched video ids, most recent first
	ListVideoIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
}

// Storage is a set of repositories sharing one db connection or transaction
type Storage interface {
	Account() AccountRepo
	Relation() RelationRepo
	Video() VideoRepo
	Comment() CommentRepo
	Post() PostRepo
	Playlist() PlaylistRepo
	History() WatchHistoryRepo

	// Run fn in transaction. Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
