package repositories

import "context"

// BlobStore stores uploaded files.
type BlobStore interface {
	// PutObject writes data under name and returns a URL to it.
	PutObject(ctx context.Context, name, contentType string, data []byte) (string, error)

	// DeleteObject removes the object; a missing object is not an error.
	DeleteObject(ctx context.Context, name string) error
}
