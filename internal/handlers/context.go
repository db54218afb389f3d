package handlers

import (
	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims stored by the auth middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// userIDString is the string form of a user ID used by the Mongo-side
// collections.
func userIDString(id uint) string {
	return services.UserIDString(id)
}
