// Package imagehost stores uploaded post images in a Cloud Storage bucket.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single upload.
const MaxImageBytes = 10 << 20

var (
	// ErrEmptyImage is returned for zero-byte uploads.
	ErrEmptyImage = errors.New("image is empty")
	// ErrTooLarge is returned when an upload exceeds MaxImageBytes.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrNotImage is returned when the content is not a recognised image type.
	ErrNotImage = errors.New("unsupported image type")
)

// ObjectStore writes one object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader validates images and hands them to an ObjectStore.
type Uploader struct {
	store  ObjectStore
	prefix string
	now    func() time.Time
}

// NewUploader creates an Uploader writing under prefix.
func NewUploader(store ObjectStore, prefix string) *Uploader {
	return &Uploader{store: store, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

// Upload reads at most MaxImageBytes from r, sniffs its type and stores it
// under a fresh name. It returns the image URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrNotImage
	}

	name := path.Join(u.prefix, u.now().UTC().Format("2006/01"), uuid.NewString()+ext)
	url, err := u.store.Put(ctx, name, contentType, data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// BucketStore is an ObjectStore over a Cloud Storage bucket.
type BucketStore struct {
	bucket *storage.BucketHandle
	name   string
}

// NewBucketStore creates a BucketStore. name is used to build public URLs.
func NewBucketStore(bucket *storage.BucketHandle, name string) *BucketStore {
	return &BucketStore{bucket: bucket, name: name}
}

// Put uploads data as object name.
func (b *BucketStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, name), nil
}
