package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/graph"
	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/labstack/echo/v4"
)

// AdminHandler exposes repair operations
type AdminHandler struct {
	graph       *graph.Accessor
	leaderboard *leaderboard.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(accessor *graph.Accessor, board *leaderboard.Service) *AdminHandler {
	return &AdminHandler{graph: accessor, leaderboard: board}
}

// RegisterAdminRoutes registers admin routes; g must already be restricted to admins
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/reconcile-followers", h.ReconcileFollowers)
	g.POST("/rebuild-tallies", h.RebuildTallies)
}

// ReconcileFollowers rewrites followers lists from following lists
func (h *AdminHandler) ReconcileFollowers(c echo.Context) error {
	repaired, err := h.graph.ReconcileFollowers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"repaired": repaired}})
}

// RebuildTallies recomputes the leaderboard tallies from all posts
func (h *AdminHandler) RebuildTallies(c echo.Context) error {
	rows, err := h.leaderboard.Rebuild(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"rows": rows}})
}
