package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxUploadBytes limits image uploads when no other limit is configured.
const DefaultMaxUploadBytes = 5 << 20

// MaxImageDimension bounds the width and height of stored images.
const MaxImageDimension = 512

var imageFormats = map[string]struct {
	format imaging.Format
	ext    string
}{
	"image/jpeg": {imaging.JPEG, ".jpg"},
	"image/png":  {imaging.PNG, ".png"},
	"image/gif":  {imaging.GIF, ".gif"},
}

type mediaService struct {
	BaseService
	blobs    portsrepo.BlobStore
	users    portssvc.UserWriterSvc
	maxBytes int
}

// NewMediaService creates the image upload service. Profile photos are linked
// to their owner through users.
func NewMediaService(blobs portsrepo.BlobStore, users portssvc.UserWriterSvc, maxBytes int, opts ...ServiceOption) portssvc.MediaSvc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &mediaService{
		BaseService: newBaseService(opts),
		blobs:       blobs,
		users:       users,
		maxBytes:    maxBytes,
	}
}

// UploadImage sniffs the content type, shrinks the image to fit within
// MaxImageDimension and stores it.
func (s *mediaService) UploadImage(ctx context.Context, kind domain.ImageKind, ownerID string, data []byte) (*domain.StoredImage, error) {
	if kind != domain.ImageProfilePhoto && kind != domain.ImageCompanyLogo {
		return nil, fmt.Errorf("%w: unknown image kind %q", apperrors.ErrValidation, kind)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", apperrors.ErrValidation)
	}
	if len(data) > s.maxBytes {
		return nil, fmt.Errorf("%w: image is %d bytes, limit is %d", apperrors.ErrValidation, len(data), s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), domain.AllowedImageTypes...) {
		return nil, fmt.Errorf("%w: unsupported image type %s", apperrors.ErrValidation, mtype.String())
	}
	contentType := mtype.String()
	f := imageFormats[contentType]

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode image: %v", apperrors.ErrValidation, err)
	}
	img = fitImage(img)

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, f.format); err != nil {
		s.LogError(ctx, err, "Failed to encode resized image")
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s/%s%s", kind, ownerID, uuid.NewString(), f.ext)
	url, err := s.blobs.PutObject(ctx, objectName, contentType, out.Bytes())
	if err != nil {
		s.LogError(ctx, err, "Failed to store image", slog.String("object", objectName))
		return nil, err
	}

	if kind == domain.ImageProfilePhoto {
		if _, err := s.users.SetPhotoURL(ctx, ownerID, url); err != nil {
			if delErr := s.blobs.DeleteObject(ctx, objectName); delErr != nil {
				s.LogError(ctx, delErr, "Failed to remove orphaned image", slog.String("object", objectName))
			}
			return nil, err
		}
	}

	bounds := img.Bounds()
	s.LogInfo(ctx, "Image stored",
		slog.String("kind", string(kind)),
		slog.String("object", objectName),
		slog.Int("width", bounds.Dx()),
		slog.Int("height", bounds.Dy()))
	return &domain.StoredImage{
		Kind:        kind,
		ObjectName:  objectName,
		URL:         url,
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Size:        out.Len(),
	}, nil
}

func fitImage(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= MaxImageDimension && b.Dy() <= MaxImageDimension {
		return img
	}
	return imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)
}
