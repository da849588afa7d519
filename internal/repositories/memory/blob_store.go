package memory

import (
	"context"
	"sync"

	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
)

// BlobStore keeps uploaded objects in memory and serves them under baseURL.
type BlobStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

func NewBlobStore(baseURL string) *BlobStore {
	return &BlobStore{baseURL: baseURL, objects: make(map[string]Object)}
}

var _ portsrepo.BlobStore = (*BlobStore)(nil)

func (b *BlobStore) PutObject(ctx context.Context, name, contentType string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return b.baseURL + "/" + name, nil
}

func (b *BlobStore) DeleteObject(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, name)
	return nil
}

// Get returns a stored object.
func (b *BlobStore) Get(name string) (Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.objects[name]
	return o, ok
}
