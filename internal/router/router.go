package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/nahid-dev/devconnect/backend/internal/handlers"
	"github.com/nahid-dev/devconnect/backend/internal/middleware"
	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/realtime"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDatabase string, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Endorsement{},
		&models.Bookmark{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mdb := mgClient.Database(mongoDatabase)
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	endorsementRepo := repositories.NewPostgresEndorsementRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mdb)
	projectRepo := repositories.NewMongoProjectRepository(mdb)
	conversationRepo := repositories.NewMongoConversationRepository(mdb)
	messageRepo := repositories.NewMongoMessageRepository(mdb)
	notificationRepo := repositories.NewMongoNotificationRepository(mdb)

	// MongoDB indexes back the uniqueness and ordering guarantees, so a
	// failure here is fatal.
	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for name, ensure := range map[string]func(context.Context) error{
		"posts":         postRepo.EnsureIndexes,
		"projects":      projectRepo.EnsureIndexes,
		"conversations": conversationRepo.EnsureIndexes,
		"messages":      messageRepo.EnsureIndexes,
		"notifications": notificationRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatalf("Failed to ensure %s indexes: %v", name, err)
		}
	}
	log.Println("MongoDB indexes ensured.")

	// --- Real-time hub and services ---
	hub := realtime.NewHub()
	notifier := services.NewNotifier(notificationRepo, hub)
	messenger := services.NewMessengerService(conversationRepo, messageRepo, userRepo, notifier, hub)

	// Websocket handshake - authenticates via its token query parameter
	socketHandler := handlers.NewSocketHandler(hub)
	socketHandler.RegisterSocketRoutes(e)
	log.Println("Websocket route configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile and follow routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, followRepo, notifier)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Project routes
	projectHandler := handlers.NewProjectHandler(projectRepo, notifier)
	projectHandler.RegisterProjectRoutes(api)
	log.Println("Project routes configured.")

	// Endorsement routes
	endorsementHandler := handlers.NewEndorsementHandler(endorsementRepo, userRepo, notifier)
	endorsementHandler.RegisterEndorsementRoutes(api)
	log.Println("Endorsement routes configured.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// Messaging routes
	messageHandler := handlers.NewMessageHandler(messenger)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Messaging routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Search routes
	searchHandler := handlers.NewSearchHandler(userRepo, postRepo, projectRepo)
	searchHandler.RegisterSearchRoutes(api)
	log.Println("Search routes configured.")

	log.Println("All routes configured.")
}
