package handlers

import (
	"net/http"
	"strings"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// SearchHandler handles the combined search endpoint
type SearchHandler struct {
	userRepository    repositories.UserRepository
	postRepository    repositories.PostRepository
	projectRepository repositories.ProjectRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, projectRepo repositories.ProjectRepository) *SearchHandler {
	return &SearchHandler{
		userRepository:    userRepo,
		postRepository:    postRepo,
		projectRepository: projectRepo,
	}
}

// RegisterSearchRoutes registers the search route
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

type searchResults struct {
	Users    []models.UserCompact `json:"users"`
	Posts    []models.Post        `json:"posts"`
	Projects []models.Project     `json:"projects"`
}

// Search queries users, posts and projects in one request
func (h *SearchHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	results := searchResults{
		Users:    []models.UserCompact{},
		Posts:    []models.Post{},
		Projects: []models.Project{},
	}
	if len(query) < 2 {
		return c.JSON(http.StatusOK, results)
	}

	users, err := h.userRepository.SearchUsers(query, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, user := range users {
		results.Users = append(results.Users, user.ToCompact())
	}

	posts, err := h.postRepository.SearchPosts(c.Request().Context(), query, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if posts != nil {
		results.Posts = posts
	}

	projects, err := h.projectRepository.SearchProjects(c.Request().Context(), query, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if projects != nil {
		results.Projects = projects
	}

	return c.JSON(http.StatusOK, results)
}
