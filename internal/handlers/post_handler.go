package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/engagement"
	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	engine         *engagement.Engine
	feed           *FeedHandler
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, engine *engagement.Engine, feed *FeedHandler) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		engine:         engine,
		feed:           feed,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost publishes a post authored by the session user
func (h *PostHandler) CreatePost(c echo.Context) error {
	s, err := actingUser(c, "")
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.engine.Publish(c.Request().Context(), s.UserID, engagement.NewPost{
		Title:           req.Title,
		Caption:         req.Caption,
		ImageURL:        req.ImageURL,
		Location:        req.Location,
		HotDogsConsumed: int64(req.HotDogsConsumed),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPosts serves the viewer's feed when userId is given. Otherwise it lists
// every post newest first, optionally restricted to authorId.
func (h *PostHandler) GetPosts(c echo.Context) error {
	if c.QueryParam("userId") != "" {
		return h.feed.GetFeed(c)
	}

	var (
		posts []models.Post
		err   error
	)
	if authorID := c.QueryParam("authorId"); authorID != "" {
		posts, err = h.postRepository.GetPostsByUserID(c.Request().Context(), authorID)
	} else {
		posts, err = h.postRepository.GetAllPosts(c.Request().Context())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the session user
func (h *PostHandler) DeletePost(c echo.Context) error {
	s, err := actingUser(c, "")
	if err != nil {
		return err
	}
	if err := h.engine.DeletePost(c.Request().Context(), c.Param("id"), s.UserID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
