package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/engagement"
	"github.com/baker339/DOGR/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engine *engagement.Engine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engine *engagement.Engine) *LikeHandler {
	return &LikeHandler{engine: engine}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post for the session user, or unlikes it if already liked
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := actingUser(c, req.UserID)
	if err != nil {
		return err
	}

	post, err := h.engine.ToggleLike(c.Request().Context(), c.Param("id"), s.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}
