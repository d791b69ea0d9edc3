// Package storage uploads files to an S3-compatible bucket and hands back
// URLs that clients can render directly.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// ObjectStorage is what services depend on; tests substitute a fake.
type ObjectStorage interface {
	// Upload stores body under key and returns its public URL.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// SignedURL returns a time-limited GET URL for private buckets.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string // e.g. https://cdn.example.com; defaults to the endpoint
}

type minioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage connects to the endpoint and creates the bucket if it
// does not exist yet.
func NewMinioStorage(ctx context.Context, cfg Config) (ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		utils.Logger.Infof("Created object storage bucket %s", cfg.Bucket)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &minioStorage{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func (s *minioStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", utils.ErrExternalServiceFailure, key, err)
	}
	return PublicURL(s.baseURL, s.bucket, key), nil
}

func (s *minioStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", utils.ErrExternalServiceFailure, key, err)
	}
	return u.String(), nil
}

// PublicURL renders <base>/<bucket>/<key> with the key path-escaped.
func PublicURL(baseURL, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(baseURL, "/") + "/" + bucket + "/" + strings.Join(parts, "/")
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// EvidenceKey builds maintenance/<tenancy>/<unix-nanos>_<uuid>_<name>.
// The uuid keeps same-named files uploaded together apart.
func EvidenceKey(tenancyID, fileName string, now time.Time) string {
	name := unsafeName.ReplaceAllString(path.Base(fileName), "_")
	if name == "" || name == "." || name == "_" {
		name = "image"
	}
	return fmt.Sprintf("maintenance/%s/%d_%s_%s", tenancyID, now.UnixNano(), uuid.NewString(), name)
}
