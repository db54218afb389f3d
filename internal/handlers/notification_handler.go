package handlers

import (
	"net/http"
	"strconv"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notificationRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/mark/all-as-read", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// notificationView is a notification enriched with the acting user's profile.
type notificationView struct {
	models.Notification
	Actor *models.UserCompact `json:"actor,omitempty"`
}

// GetNotifications lists the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), userIDString(currentUserID), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Hydrate actor profiles; a sender who deleted their account is left nil.
	actors := make(map[string]*models.UserCompact)
	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		actor, seen := actors[n.Sender]
		if !seen {
			if senderID, err := strconv.ParseUint(n.Sender, 10, 64); err == nil {
				if user, err := h.userRepository.GetUserByID(uint(senderID)); err == nil {
					compact := user.ToCompact()
					actor = &compact
				}
			}
			actors[n.Sender] = actor
		}
		views = append(views, notificationView{Notification: n, Actor: actor})
	}
	return c.JSON(http.StatusOK, views)
}

// GetUnreadCount returns how many unread notifications the caller has
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), userIDString(currentUserID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks a single notification of the caller as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), c.Param("id"), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification deletes a notification the caller received
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.DeleteNotification(c.Request().Context(), c.Param("id"), userIDString(currentUserID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
