package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/realtime"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set custom headers on websocket handshakes, so the
	// token travels in the query string and origin checks stay permissive.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler upgrades authenticated clients to websocket connections
type SocketHandler struct {
	hub       *realtime.Hub
	jwtSecret string
}

// NewSocketHandler creates a new SocketHandler
func NewSocketHandler(hub *realtime.Hub) *SocketHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &SocketHandler{hub: hub, jwtSecret: jwtSecret}
}

// RegisterSocketRoutes registers the websocket handshake route
func (h *SocketHandler) RegisterSocketRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve authenticates the handshake and hands the connection to the hub.
// A second connection for the same user replaces the first.
func (h *SocketHandler) Serve(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %d: %v", claims.UserID, err)
		return err
	}

	client := realtime.NewClient(h.hub, conn, services.UserIDString(claims.UserID))
	client.Run()
	return nil
}
