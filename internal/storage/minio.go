package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nkiryanov/videohub/internal/models"
)

// minioClient is the part of minio client the storage uses
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// Base url assets are served from, e.g. https://cdn.example.com
	// If empty the endpoint is used
	PublicURL string
}

// MinioStorage implements ObjectStorage on top of MinIO (or any S3 compatible service)
type MinioStorage struct {
	client    minioClient
	bucket    string
	publicURL string
}

// NewMinioStorage verifies the bucket exists so misconfiguration fails on start
func NewMinioStorage(ctx context.Context, cfg Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return newMinioStorage(ctx, client, cfg.Bucket, publicURL)
}

func newMinioStorage(ctx context.Context, client minioClient, bucket string, publicURL string) (*MinioStorage, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}

	return &MinioStorage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *MinioStorage) Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) (models.Asset, error) {
	if size == 0 {
		return models.Asset{}, ErrEmptyObject
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return models.Asset{URL: s.url(key), StorageID: key}, nil
}

func (s *MinioStorage) Remove(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MinioStorage) url(key string) string {
	return s.publicURL + "/" + url.PathEscape(s.bucket) + "/" + key
}
