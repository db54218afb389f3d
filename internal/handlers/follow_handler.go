package handlers

import (
	"net/http"
	"strconv"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow request and follow graph HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         *services.Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier *services.Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.SendFollowRequest)
	g.POST("/users/:id/unfollow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/follow-requests", h.GetFollowRequests)
	g.POST("/users/follow-requests/:id/accept", h.AcceptFollowRequest)
	g.POST("/users/follow-requests/:id/reject", h.RejectFollowRequest)
}

// SendFollowRequest sends a follow request to another user
func (h *FollowHandler) SendFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(uint(targetID))
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	pending, err := h.followRepository.HasFollowRequest(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pending {
		return echo.NewHTTPError(http.StatusConflict, "Follow request already sent")
	}

	request := &models.FollowRequest{
		RequesterID: currentUserID,
		TargetID:    uint(targetID),
	}
	if err := h.followRepository.CreateFollowRequest(request); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: target.IDString(),
		Sender:    userIDString(currentUserID),
		Type:      models.NotificationFollowRequest,
		Ref:       &models.NotificationRef{Kind: "user", ID: userIDString(currentUserID)},
		Message:   "sent you a follow request",
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Follow request sent"})
}

// UnfollowUser removes an existing follow relationship
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Unfollowed successfully"})
}

// GetFollowers lists the users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	follows, err := h.followRepository.GetFollowers(uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profiles := make([]models.UserCompact, 0, len(follows))
	for _, follow := range follows {
		if user, err := h.userRepository.GetUserByID(follow.FollowerID); err == nil {
			profiles = append(profiles, user.ToCompact())
		}
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetFollowing lists the users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	follows, err := h.followRepository.GetFollowing(uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profiles := make([]models.UserCompact, 0, len(follows))
	for _, follow := range follows {
		if user, err := h.userRepository.GetUserByID(follow.FollowingID); err == nil {
			profiles = append(profiles, user.ToCompact())
		}
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetFollowRequests lists pending follow requests for the authenticated user
func (h *FollowHandler) GetFollowRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.followRepository.GetFollowRequests(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type pendingRequest struct {
		models.FollowRequest
		Requester models.UserCompact `json:"requester"`
	}
	out := make([]pendingRequest, 0, len(requests))
	for _, req := range requests {
		p := pendingRequest{FollowRequest: req}
		if user, err := h.userRepository.GetUserByID(req.RequesterID); err == nil {
			p.Requester = user.ToCompact()
		}
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

// AcceptFollowRequest accepts a pending follow request
func (h *FollowHandler) AcceptFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollowRequest(uint(requesterID), currentUserID); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	follow := &models.Follow{
		FollowerID:  uint(requesterID),
		FollowingID: currentUserID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: userIDString(uint(requesterID)),
		Sender:    userIDString(currentUserID),
		Type:      models.NotificationFollowAccepted,
		Ref:       &models.NotificationRef{Kind: "user", ID: userIDString(currentUserID)},
		Message:   "accepted your follow request",
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Follow request accepted"})
}

// RejectFollowRequest rejects a pending follow request
func (h *FollowHandler) RejectFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollowRequest(uint(requesterID), currentUserID); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Follow request rejected"})
}
