package filestorage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vitbooks/exchange/internal/pkg/logger"
)

var (
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")
	ErrDeleteFailed         = errors.New("failed to delete file")
)

// MinIOConfig holds connection settings for an S3 compatible object store
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally reachable bucket URL; defaults to the endpoint
	PublicURL string
}

// MinIOStorage stores images in a MinIO/S3 bucket
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOStorage connects to the object store and ensures the bucket exists
func NewMinIOStorage(ctx context.Context, cfg MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	s := &MinIOStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *MinIOStorage) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
		}
		logger.Info().Str("bucket", s.bucket).Msg("Created storage bucket")
	}

	return nil
}

// Save uploads the file as folder/<uuid><ext> and returns its public URL
func (s *MinIOStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	contentType, err := validateImage(fileHeader)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	objectKey := strings.TrimLeft(folder+"/"+uuid.New().String()+strings.ToLower(filepath.Ext(fileHeader.Filename)), "/")

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("key", objectKey).Msg("Failed to upload object")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return s.publicURL + "/" + objectKey, nil
}

// Delete removes the object behind fileURL
func (s *MinIOStorage) Delete(ctx context.Context, fileURL string) error {
	objectKey := objectKeyFromURL(s.publicURL, fileURL)
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	return nil
}
