package services

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// MediaSvc stores uploaded images.
type MediaSvc interface {
	// UploadImage validates, resizes and stores an image.
	UploadImage(ctx context.Context, kind domain.ImageKind, ownerID string, data []byte) (*domain.StoredImage, error)
}
