// Package storage mirrors export artifacts to S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	ErrNoEndpoint = errors.New("storage endpoint is required")
	ErrNoBucket   = errors.New("storage bucket is required")
)

// Mirror copies a finished export somewhere else and returns its location.
type Mirror interface {
	Mirror(ctx context.Context, runID, localPath string) (string, error)
}

// Nop is a Mirror that does nothing.
type Nop struct{}

// Mirror implements Mirror.
func (Nop) Mirror(context.Context, string, string) (string, error) {
	return "", nil
}

// Config holds the S3 connection settings.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Prefix    string
	Logger    *slog.Logger
}

// MinioSink uploads exports with minio-go.
type MinioSink struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// New connects to the endpoint and makes sure the bucket exists,
// creating it when missing.
func New(ctx context.Context, cfg Config) (*MinioSink, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("created storage bucket", "bucket", cfg.Bucket)
	}

	return &MinioSink{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// Mirror implements Mirror. It returns the s3:// URI of the uploaded object.
func (s *MinioSink) Mirror(ctx context.Context, runID, localPath string) (string, error) {
	key := ObjectKey(s.prefix, runID, localPath)

	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filepath.Base(localPath), err)
	}

	s.logger.Debug("mirrored export", "bucket", s.bucket, "key", key, "size", info.Size)
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// ObjectKey builds "<prefix>/<runID>/<basename>", skipping empty parts.
func ObjectKey(prefix, runID, localPath string) string {
	parts := make([]string, 0, 3)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if runID != "" {
		parts = append(parts, runID)
	}
	parts = append(parts, filepath.Base(localPath))
	return path.Join(parts...)
}

// ContentType returns the MIME type for an export file.
func ContentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

var (
	_ Mirror = Nop{}
	_ Mirror = (*MinioSink)(nil)
)
