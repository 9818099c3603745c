package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

// MediaHandler streams stored images
type MediaHandler struct {
	images *services.ImageService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(images *services.ImageService) *MediaHandler {
	return &MediaHandler{images: images}
}

// RegisterMediaRoutes registers the blob route at the server root
func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/*", h.Serve)
}

// Serve writes the blob named by the wildcard path. Blobs stored without a
// content type are sniffed.
func (h *MediaHandler) Serve(c echo.Context) error {
	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}
	blob, err := h.images.Open(c.Request().Context(), key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}
	if err != nil {
		return toHTTPError(c, err)
	}
	defer blob.Body.Close()

	data, err := io.ReadAll(io.LimitReader(blob.Body, services.MaxImageSize+1))
	if err != nil {
		return toHTTPError(c, err)
	}
	contentType := blob.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}
