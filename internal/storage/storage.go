package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/models"
)

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrEmptyObject    = errors.New("object is empty")
)

// ObjectStorage keeps uploaded files (avatars, covers, videos, thumbnails)
type ObjectStorage interface {
	// Store object under the key. Size may be -1 if unknown
	Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) (models.Asset, error)

	// Remove object by its storage id. Removing missing object is not an error
	Remove(ctx context.Context, storageID string) error
}

// NewKey builds unique object key inside the folder, keeping file extension
func NewKey(folder string, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

// Folders objects are grouped in
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// Upload is a file received from client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Put stores upload under a fresh key in the folder
func Put(ctx context.Context, s ObjectStorage, folder string, u Upload) (models.Asset, error) {
	if u.Body == nil {
		return models.Asset{}, ErrEmptyObject
	}
	return s.Store(ctx, NewKey(folder, u.Filename), u.Body, u.Size, u.ContentType)
}
