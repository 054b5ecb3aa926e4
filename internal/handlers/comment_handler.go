package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/engagement"
	"github.com/baker339/DOGR/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engine *engagement.Engine
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engine *engagement.Engine) *CommentHandler {
	return &CommentHandler{engine: engine}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.AddComment)
}

// AddComment appends a comment by the session user
func (h *CommentHandler) AddComment(c echo.Context) error {
	var req models.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := actingUser(c, req.UserID)
	if err != nil {
		return err
	}

	post, err := h.engine.AddComment(c.Request().Context(), c.Param("id"), s.UserID, req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}
