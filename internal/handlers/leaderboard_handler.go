package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/labstack/echo/v4"
)

// LeaderboardHandler serves ranked consumption boards
type LeaderboardHandler struct {
	service *leaderboard.Service
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// RegisterLeaderboardRoutes registers leaderboard routes
func (h *LeaderboardHandler) RegisterLeaderboardRoutes(g *echo.Group) {
	g.GET("/leaderboard", h.GetLeaderboard)
}

// GetLeaderboard returns the global board and the session user's circle.
// Query: window=month|year|all-time, default year.
func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	s, err := actingUser(c, "")
	if err != nil {
		return err
	}
	window, err := leaderboard.ParseWindow(c.QueryParam("window"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	board, err := h.service.Board(c.Request().Context(), window, s.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}
