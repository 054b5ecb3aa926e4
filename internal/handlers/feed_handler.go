package handlers

import (
	"net/http"
	"strconv"

	"github.com/baker339/DOGR/internal/feed"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// FeedHandler serves composed feed pages
type FeedHandler struct {
	composer *feed.Composer
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(composer *feed.Composer) *FeedHandler {
	return &FeedHandler{composer: composer}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one page of the viewer's feed. Query: userId (optional,
// must be the viewer), limit, skip, session.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	s, err := actingUser(c, c.QueryParam("userId"))
	if err != nil {
		return err
	}

	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	skip, err := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if err != nil || skip < 0 {
		skip = 0
	}

	page, err := h.composer.Page(c.Request().Context(), s.UserID, limit, skip, c.QueryParam("session"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
