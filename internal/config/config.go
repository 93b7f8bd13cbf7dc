package config

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey string
	DatabaseURL   string
	Port          string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Get YouTube API key from environment
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: you must set the environment variable YOUTUBE_API_KEY", ErrMissingAPIKey)
	}

	// Snapshot caching is disabled when no connection string is set
	databaseURL := os.Getenv("SQLITECLOUD_URL")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		YouTubeAPIKey: apiKey,
		DatabaseURL:   databaseURL,
		Port:          port,
	}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}
