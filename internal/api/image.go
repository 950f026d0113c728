package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/internal/media"
)

// MaxImageSize bounds multipart image uploads.
const MaxImageSize = 10 << 20

// ImageHandler accepts recipe pictures for the image field.
type ImageHandler struct {
	images media.IImageStore
}

// NewImageHandler creates a new ImageHandler instance
func NewImageHandler(images media.IImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	router.POST("/images", chain(write, h.UploadImage)...)
}

// UploadImage takes a multipart "file" field and returns the stored URL.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize)
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file is required: %w", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer file.Close()

	url, err := h.images.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ImageResponse{URL: url})
}
