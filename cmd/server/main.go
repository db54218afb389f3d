package main

import (
	"context"
	"log"

	"github.com/nahid-dev/devconnect/backend/internal/router"
	"github.com/nahid-dev/devconnect/backend/pkg/config"
	"github.com/nahid-dev/devconnect/backend/pkg/firebase"
	"github.com/nahid-dev/devconnect/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase; optional, the local JWT auth works without it
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if firebaseApp != nil {
		router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDatabase, firebaseApp.AuthClient)
	} else {
		router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDatabase, nil)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
