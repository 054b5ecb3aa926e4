package handlers

import (
	"net/http"

	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user lookups and lazy creation
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.GET("/users/:userId", h.GetUser)
	g.POST("/users/:userId", h.EnsureUser)
}

// GetUsers lists every user
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser retrieves a user by identity-provider id
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// EnsureUser creates the session user's document on first login. Calling it
// again returns the existing user, updating the name when one is sent.
func (h *UserHandler) EnsureUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := actingUser(c, c.Param("userId"))
	if err != nil {
		return err
	}
	if _, err := actingUser(c, req.UserID); err != nil {
		return err
	}

	name := req.Name
	if name == "" {
		name = s.DisplayName
	}
	user, err := h.userRepository.EnsureUser(c.Request().Context(), s.UserID, name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
