package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
)

// BucketStore keeps uploads in the Firebase Storage bucket.
type BucketStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewBucketStore wraps bucket; bucketName is used to build download URLs.
func NewBucketStore(bucket *storage.BucketHandle, bucketName string) *BucketStore {
	return &BucketStore{bucket: bucket, bucketName: bucketName}
}

var _ portsrepo.BlobStore = (*BucketStore)(nil)

func (b *BucketStore) PutObject(ctx context.Context, name, contentType string, data []byte) (string, error) {
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", name, err)
	}
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		b.bucketName, strings.ReplaceAll(url.PathEscape(name), "/", "%2F")), nil
}

func (b *BucketStore) DeleteObject(ctx context.Context, name string) error {
	err := b.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}
