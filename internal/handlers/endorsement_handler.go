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

// EndorsementHandler handles HTTP requests related to skill endorsements
type EndorsementHandler struct {
	endorsementRepository repositories.EndorsementRepository
	userRepository        repositories.UserRepository
	notifier              *services.Notifier
}

// NewEndorsementHandler creates a new EndorsementHandler
func NewEndorsementHandler(endorsementRepo repositories.EndorsementRepository, userRepo repositories.UserRepository, notifier *services.Notifier) *EndorsementHandler {
	return &EndorsementHandler{
		endorsementRepository: endorsementRepo,
		userRepository:        userRepo,
		notifier:              notifier,
	}
}

// RegisterEndorsementRoutes registers endorsement-related routes
func (h *EndorsementHandler) RegisterEndorsementRoutes(g *echo.Group) {
	g.POST("/endorsements", h.CreateEndorsement)
	g.GET("/users/:id/endorsements", h.GetUserEndorsements)
	g.GET("/endorsements/given", h.GetGivenEndorsements)
	g.DELETE("/endorsements/:id", h.DeleteEndorsement)
}

// skillEndorsements groups a user's endorsements per skill for the profile view.
type skillEndorsements struct {
	Skill        string               `json:"skill"`
	Count        int                  `json:"count"`
	Endorsements []models.Endorsement `json:"endorsements"`
}

// CreateEndorsement endorses a skill on another user's profile
func (h *EndorsementHandler) CreateEndorsement(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateEndorsementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot endorse yourself")
	}

	recipient, err := h.userRepository.GetUserByID(req.UserID)
	if err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	if !recipient.HasSkill(req.Skill) {
		return echo.NewHTTPError(http.StatusBadRequest, "User does not list this skill")
	}

	endorsement := &models.Endorsement{
		FromID:  currentUserID,
		ToID:    req.UserID,
		Skill:   req.Skill,
		Message: req.Message,
	}
	if err := h.endorsementRepository.CreateEndorsement(endorsement); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	h.notifier.Notify(c.Request().Context(), &models.Notification{
		Recipient: userIDString(req.UserID),
		Sender:    userIDString(currentUserID),
		Type:      models.NotificationEndorsement,
		Ref:       &models.NotificationRef{Kind: "user", ID: userIDString(currentUserID)},
		Message:   "endorsed your " + req.Skill + " skill",
	})

	return c.JSON(http.StatusCreated, endorsement)
}

// GetUserEndorsements lists a user's received endorsements grouped by skill
func (h *EndorsementHandler) GetUserEndorsements(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	endorsements, err := h.endorsementRepository.GetByRecipient(uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	grouped := make(map[string][]models.Endorsement)
	order := make([]string, 0)
	for _, e := range endorsements {
		if _, seen := grouped[e.Skill]; !seen {
			order = append(order, e.Skill)
		}
		grouped[e.Skill] = append(grouped[e.Skill], e)
	}

	result := make([]skillEndorsements, 0, len(order))
	for _, skill := range order {
		result = append(result, skillEndorsements{
			Skill:        skill,
			Count:        len(grouped[skill]),
			Endorsements: grouped[skill],
		})
	}
	return c.JSON(http.StatusOK, result)
}

// GetGivenEndorsements lists endorsements the caller has given
func (h *EndorsementHandler) GetGivenEndorsements(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	endorsements, err := h.endorsementRepository.GetByGiver(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, endorsements)
}

// DeleteEndorsement withdraws an endorsement the caller gave
func (h *EndorsementHandler) DeleteEndorsement(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid endorsement ID")
	}

	if err := h.endorsementRepository.DeleteEndorsement(uint(id), currentUserID); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Endorsement removed successfully"})
}
