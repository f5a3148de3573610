package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sigmat-api/apperrors"
)

// Upload size limits, checked before bytes reach the store.
const (
	MaxPhotoBytes      = 5 << 20
	MaxChatImageBytes  = 5 << 20
	MaxChatVideoBytes  = 10 << 20
	MaxStoryMediaBytes = 50 << 20
)

// Upload is a file received from a client.
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CheckSize rejects uploads that are empty or larger than limit.
func (u Upload) CheckSize(limit int, label string) error {
	if len(u.Data) == 0 {
		return apperrors.InvalidInput("Empty file")
	}
	if len(u.Data) > limit {
		return apperrors.InvalidInput(fmt.Sprintf("%s too large (max %dMB)", label, limit>>20))
	}
	return nil
}

// MediaStore persists bytes and returns a reference the clients can load.
type MediaStore interface {
	Store(ctx context.Context, upload Upload) (string, error)
}

// DataURLStore inlines the bytes into a base64 data URL.
type DataURLStore struct{}

func (DataURLStore) Store(_ context.Context, upload Upload) (string, error) {
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data), nil
}

// MinioStore writes objects to an S3-compatible bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func NewMinioStore(ctx context.Context, opts MinioOptions) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &MinioStore{client: client, bucket: opts.Bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *MinioStore) Store(ctx context.Context, upload Upload) (string, error) {
	name := objectName(upload)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(upload.Data), int64(len(upload.Data)),
		minio.PutObjectOptions{ContentType: upload.ContentType})
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return s.publicURL + "/" + name, nil
}

func objectName(upload Upload) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(upload.ContentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return uuid.NewString() + ext
}
