package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles HTTP requests related to direct messaging
type MessageHandler struct {
	messenger *services.MessengerService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messenger *services.MessengerService) *MessageHandler {
	return &MessageHandler{messenger: messenger}
}

// RegisterMessageRoutes registers messaging-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.POST("/conversations", h.StartConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PATCH("/conversations/:id/read", h.MarkConversationRead)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// GetConversations lists the caller's conversations, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conversations, err := h.messenger.ListConversations(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, conversations)
}

// StartConversation opens (or returns the existing) conversation with
// another user
func (h *MessageHandler) StartConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conversation, err := h.messenger.StartConversation(c.Request().Context(), currentUserID, req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, conversation)
}

// GetMessages lists messages in a conversation the caller belongs to.
// Supports cursor pagination via the before and limit query parameters.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var before *time.Time
	if raw := c.QueryParam("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "before must be an RFC3339 timestamp")
		}
		before = &t
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	messages, err := h.messenger.ListMessages(c.Request().Context(), currentUserID, c.Param("id"), before, limit)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage sends a message in a conversation the caller belongs to
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messenger.SendMessage(c.Request().Context(), currentUserID, c.Param("id"), req)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusCreated, message)
}

// MarkConversationRead marks every message sent to the caller in the
// conversation as read and resets their unread counter
func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.messenger.MarkConversationRead(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Conversation marked as read"})
}

// DeleteMessage deletes a message the caller sent
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.messenger.DeleteMessage(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted successfully"})
}
