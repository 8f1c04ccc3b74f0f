package helpers

import (
	"context"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

type UploadOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// UploadObject streams r into bucket/objectPath and returns the object's public URL.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath string, r io.Reader, opts UploadOptions) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = opts.ContentType
	wc.CacheControl = opts.CacheControl
	wc.Metadata = opts.Metadata
	wc.ChunkSize = 0 // single request; avatars are small
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL builds the storage.googleapis.com URL of an object, escaping
// each path segment.
func PublicURL(bucket, objectPath string) string {
	segs := strings.Split(objectPath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}
