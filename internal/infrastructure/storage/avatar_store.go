package storage

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

var ErrNotConfigured = errors.New("gcs not configured")

// AvatarStore writes avatar images to a GCS bucket.
type AvatarStore struct {
	Client       *storage.Client
	Bucket       string
	CacheControl string
}

var _ application.AvatarStore = (*AvatarStore)(nil)

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{Client: client, Bucket: bucket, CacheControl: "public, max-age=86400"}
}

func (s *AvatarStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", ErrNotConfigured
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, r, helpers.UploadOptions{
		ContentType:  contentType,
		CacheControl: s.CacheControl,
		Metadata:     map[string]string{"kind": "avatar"},
	})
}
