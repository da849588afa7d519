package domain

// ImageKind selects where an uploaded image is used.
type ImageKind string

const (
	ImageProfilePhoto ImageKind = "profile"
	ImageCompanyLogo  ImageKind = "logo"
)

// Allowed upload types.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// StoredImage describes an uploaded image.
type StoredImage struct {
	Kind        ImageKind `json:"kind"`
	ObjectName  string    `json:"objectName"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Size        int       `json:"size"`
}
