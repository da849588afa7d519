package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/repositories/memory"
	"github.com/gin-gonic/gin"
)

// CompanyLogoOwner is the owner segment of company logo object names.
const CompanyLogoOwner = "company"

// multipartOverhead is allowed on top of the image limit for form boundaries and headers.
const multipartOverhead = 64 << 10

type mediaHandler struct {
	mediaService portssvc.MediaSvc
	maxBytes     int64
}

func registerMediaRoutes(rg *gin.RouterGroup, mediaService portssvc.MediaSvc, maxBytes int) {
	h := &mediaHandler{mediaService: mediaService, maxBytes: int64(maxBytes)}

	media := rg.Group("/media")
	{
		media.POST("/profile-photo", h.uploadProfilePhoto)
		media.POST("/logo", middleware.RequireRole(domain.RoleSuperAdmin), h.uploadLogo)
	}
}

// uploadProfilePhoto godoc
// @Summary Upload a profile photo
// @Description Stores a jpeg, png or gif as the signed-in user's photo, resized to at most 512px.
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Image"
// @Success 201 {object} dto.ImageUploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /media/profile-photo [post]
func (h *mediaHandler) uploadProfilePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.upload(c, domain.ImageProfilePhoto, userID)
}

// uploadLogo godoc
// @Summary Upload the company logo
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Image"
// @Success 201 {object} dto.ImageUploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /media/logo [post]
func (h *mediaHandler) uploadLogo(c *gin.Context) {
	h.upload(c, domain.ImageCompanyLogo, CompanyLogoOwner)
}

func (h *mediaHandler) upload(c *gin.Context, kind domain.ImageKind, ownerID string) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Upload is too large"})
			return
		}
		respondBadRequest(c, err)
		return
	}
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Upload is too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	img, err := h.mediaService.UploadImage(c.Request.Context(), kind, ownerID, data)
	if err != nil {
		respondError(c, err, "Failed to store image")
		return
	}
	c.JSON(http.StatusCreated, dto.ToImageUploadResponse(img))
}

// ServeMemoryBlobs serves objects of an in-memory blob store under prefix.
func ServeMemoryBlobs(r *gin.Engine, prefix string, blobs *memory.BlobStore) {
	r.GET(strings.TrimSuffix(prefix, "/")+"/*name", func(c *gin.Context) {
		obj, ok := blobs.Get(strings.TrimPrefix(c.Param("name"), "/"))
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	})
}
