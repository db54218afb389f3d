package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// DB bundles the two database handles: Postgres for the relational side
// (users, follows, endorsements, bookmarks) and Mongo for the document side
// (posts, projects, conversations, messages, notifications).
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
}

// InitDB opens and verifies both database connections. POSTGRES_CONN_STR and
// MONGO_URI must be set, either in the environment or a local .env file.
func InitDB() (*DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	db := &DB{}
	var err error
	if db.Postgres, err = openPostgres(); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if db.Mongo, err = openMongo(); err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("mongo: %w", err)
	}
	return db, nil
}

// openPostgres dials Postgres through gorm. TranslateError maps driver errors
// onto gorm's dialect-independent ones so the repositories can detect
// unique-constraint violations as gorm.ErrDuplicatedKey.
func openPostgres() (*gorm.DB, error) {
	connStr := os.Getenv("POSTGRES_CONN_STR")
	if connStr == "" {
		return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	log.Println("Connected to PostgreSQL.")
	return db, nil
}

func openMongo() (*mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB.")
	return client, nil
}

// CloseDB releases both connections. Errors are logged, not returned; there
// is nothing for the caller to do with them at shutdown.
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		if sqlDB, err := db.Postgres.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("closing postgres: %v", err)
			}
		}
	}
	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Printf("closing mongo: %v", err)
		}
	}
}
