package handlers

import (
	"net/http"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles HTTP requests related to portfolio projects
type ProjectHandler struct {
	projectRepository repositories.ProjectRepository
	notifier          *services.Notifier
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectRepo repositories.ProjectRepository, notifier *services.Notifier) *ProjectHandler {
	return &ProjectHandler{projectRepository: projectRepo, notifier: notifier}
}

// RegisterProjectRoutes registers project-related routes
func (h *ProjectHandler) RegisterProjectRoutes(g *echo.Group) {
	g.GET("/projects", h.GetProjects)
	g.GET("/projects/:id", h.GetProject)
	g.GET("/users/:id/projects", h.GetUserProjects)
	g.POST("/projects", h.CreateProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)
	g.POST("/projects/:id/like", h.ToggleLike)
	g.POST("/projects/:id/comments", h.AddComment)
	g.DELETE("/projects/comments/:commentId", h.DeleteComment)
}

// GetProjects retrieves recent projects
func (h *ProjectHandler) GetProjects(c echo.Context) error {
	page, limit := pageParams(c)
	projects, err := h.projectRepository.GetAllProjects(c.Request().Context(), (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, projects)
}

// GetProject retrieves a single project
func (h *ProjectHandler) GetProject(c echo.Context) error {
	project, err := h.projectRepository.GetProjectByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, project)
}

// GetUserProjects retrieves all projects owned by the given user
func (h *ProjectHandler) GetUserProjects(c echo.Context) error {
	projects, err := h.projectRepository.GetProjectsByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, projects)
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project := &models.Project{
		UserID:      userIDString(currentUserID),
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		LiveURL:     req.LiveURL,
		GithubURL:   req.GithubURL,
		Image:       req.Image,
	}
	if err := h.projectRepository.CreateProject(c.Request().Context(), project); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, project)
}

// UpdateProject updates a project owned by the caller
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.TechStack != nil {
		update["tech_stack"] = req.TechStack
	}
	if req.LiveURL != "" {
		update["live_url"] = req.LiveURL
	}
	if req.GithubURL != "" {
		update["github_url"] = req.GithubURL
	}
	if req.Image != "" {
		update["image"] = req.Image
	}
	if len(update) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	projectID := c.Param("id")
	if err := h.projectRepository.UpdateProject(c.Request().Context(), projectID, userIDString(currentUserID), update); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	project, err := h.projectRepository.GetProjectByID(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project owned by the caller
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.projectRepository.DeleteProject(c.Request().Context(), c.Param("id"), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted successfully"})
}

// ToggleLike likes the project if not yet liked, otherwise removes the like
func (h *ProjectHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	projectID := c.Param("id")
	project, err := h.projectRepository.GetProjectByID(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	userID := userIDString(currentUserID)
	liked := !project.HasLike(userID)
	if liked {
		err = h.projectRepository.AddLike(c.Request().Context(), projectID, userID)
	} else {
		err = h.projectRepository.RemoveLike(c.Request().Context(), projectID, userID)
	}
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	likeCount := int64(len(project.Likes))
	if liked {
		likeCount++
		h.notifier.Notify(c.Request().Context(), &models.Notification{
			Recipient: project.UserID,
			Sender:    userID,
			Type:      models.NotificationLike,
			Ref:       &models.NotificationRef{Kind: "project", ID: projectID},
			Message:   "liked your project",
		})
	} else {
		likeCount--
	}

	return c.JSON(http.StatusOK, echo.Map{"likes": likeCount, "is_liked": liked})
}

// AddComment appends a comment to the project
func (h *ProjectHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	projectID := c.Param("id")
	project, err := h.projectRepository.GetProjectByID(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	comment := models.PostComment{
		ID:        primitive.NewObjectID(),
		UserID:    userIDString(currentUserID),
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.projectRepository.AddComment(c.Request().Context(), projectID, comment); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: project.UserID,
		Sender:    comment.UserID,
		Type:      models.NotificationComment,
		Ref:       &models.NotificationRef{Kind: "project", ID: projectID},
		Message:   "commented on your project",
	})

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment the caller authored
func (h *ProjectHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.projectRepository.DeleteComment(c.Request().Context(), c.Param("commentId"), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
