package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register handles local user registration with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}
	if _, err := h.userRepository.GetUserByUsername(strings.ToLower(req.Username)); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Username: strings.ToLower(req.Username),
		Email:    req.Email,
		Password: string(hashedPassword),
		Skills:   []string{},
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// Login handles local email/password login
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLogin verifies a Firebase ID token and exchanges it for a local JWT,
// creating the local account on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	decoded, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(decoded.UID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		email, _ := decoded.Claims["email"].(string)
		name := req.Name
		if name == "" {
			name, _ = decoded.Claims["name"].(string)
		}
		username := strings.ToLower(req.Username)
		if username == "" {
			username = strings.ToLower(strings.SplitN(email, "@", 2)[0])
		}

		user = &models.User{
			Name:        name,
			Username:    username,
			Email:       email,
			FirebaseUID: &decoded.UID,
			Skills:      []string{},
		}
		if err := h.userRepository.CreateUser(user); err != nil {
			return echo.NewHTTPError(apperrors.HTTPStatusFromError(err), err.Error())
		}
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
