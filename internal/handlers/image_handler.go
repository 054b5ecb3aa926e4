package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/imagehost"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ImageHandler accepts image uploads for posts
type ImageHandler struct {
	uploader *imagehost.Uploader
}

// NewImageHandler creates a new ImageHandler. uploader may be nil when no
// bucket is configured.
func NewImageHandler(uploader *imagehost.Uploader) *ImageHandler {
	return &ImageHandler{uploader: uploader}
}

// RegisterImageRoutes registers image routes
func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.POST("/image", h.Upload, middleware.BodyLimit("11M"))
}

// Upload stores the multipart "image" field and returns its URL
func (h *ImageHandler) Upload(c echo.Context) error {
	if h.uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image uploads are not configured")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing image file")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
