package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/yt-stats/internal/api"
	"github.com/yt-stats/internal/config"
	"github.com/yt-stats/internal/models"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the snapshot cache when a connection string is set
	var store api.SnapshotStore
	if cfg.DatabaseURL != "" {
		db, err := models.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		store = db
	} else {
		log.Printf("SQLITECLOUD_URL not set, snapshot caching disabled")
	}

	// Initialize YouTube client
	client, err := api.NewYouTubeClient(context.Background(), cfg.YouTubeAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize YouTube client: %v", err)
	}

	server := api.NewServer(client, store)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
