package dto

import "github.com/SscSPs/fieldops_backend/internal/core/domain"

// ImageUploadResponse is returned after an image upload.
type ImageUploadResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func ToImageUploadResponse(img *domain.StoredImage) ImageUploadResponse {
	return ImageUploadResponse{
		URL:         img.URL,
		ContentType: img.ContentType,
		Width:       img.Width,
		Height:      img.Height,
	}
}
