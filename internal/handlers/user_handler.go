package handlers

import (
	"net/http"
	"strings"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/profile", h.UpdateProfile)
	g.GET("/users", h.ListUsers)
	g.GET("/users/search", h.SearchUsers)
	// The param is named :id to match the other /users/:id/... routes; the
	// value here is a username.
	g.GET("/users/:id", h.GetByUsername)
}

// GetMe retrieves the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" {
		username := strings.ToLower(strings.TrimSpace(req.Username))
		if existing, err := h.userRepository.GetUserByUsername(username); err == nil && existing.ID != user.ID {
			return echo.NewHTTPError(http.StatusConflict, "Username already taken")
		}
		user.Username = username
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers lists all users in their compact public form
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, compact)
}

// SearchUsers searches users by name, username or bio
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len(query) < 2 {
		return c.JSON(http.StatusOK, []models.UserCompact{})
	}

	users, err := h.userRepository.SearchUsers(query, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, compact)
}

// GetByUsername retrieves a public user profile by username
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
