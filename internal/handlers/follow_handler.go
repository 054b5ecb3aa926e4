package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/graph"
	"github.com/baker339/DOGR/internal/models"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *graph.Accessor
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(accessor *graph.Accessor) *FollowHandler {
	return &FollowHandler{graph: accessor}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow", h.FollowUser)
	g.POST("/unfollow", h.UnfollowUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	var req models.FollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := actingUser(c, req.CurrentUserID)
	if err != nil {
		return err
	}

	if err := h.graph.Follow(c.Request().Context(), s.UserID, req.TargetUserID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	var req models.FollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := actingUser(c, req.CurrentUserID)
	if err != nil {
		return err
	}

	if err := h.graph.Unfollow(c.Request().Context(), s.UserID, req.TargetUserID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}
