package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yt-stats/internal/models"
)

// ChannelService is the query surface the HTTP layer depends on.
type ChannelService interface {
	GetChannelStats(ctx context.Context, identifier string, videoCount int) (*models.ChannelStats, error)
	SearchChannels(ctx context.Context, query string, maxResults int) ([]models.ChannelSearchResult, error)
}

// SnapshotStore caches channel stats between requests. A nil store
// disables caching.
type SnapshotStore interface {
	StoreSnapshot(identifier string, videoCount int, stats *models.ChannelStats) error
	GetSnapshot(identifier string, videoCount int) (*models.ChannelStats, time.Time, error)
}

// Server represents the API server
type Server struct {
	router  *gin.Engine
	service ChannelService
	db      SnapshotStore
}

// NewServer creates a new API server
func NewServer(service ChannelService, db SnapshotStore) *Server {
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:  router,
		service: service,
		db:      db,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Channel endpoints
	s.router.GET("/channel/:identifier/stats", s.getChannelStats)

	// Search endpoints
	s.router.GET("/search/channels", s.searchChannels)
}

// getChannelStats handles requests for channel statistics
func (s *Server) getChannelStats(c *gin.Context) {
	identifier := c.Param("identifier")

	videoCount := defaultVideoCount
	if raw := c.Query("videoCount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "videoCount must be a positive integer",
			})
			return
		}
		videoCount = n
	}

	if stats := s.cachedStats(identifier, videoCount); stats != nil {
		c.JSON(http.StatusOK, stats)
		return
	}

	stats, err := s.service.GetChannelStats(c.Request.Context(), identifier, videoCount)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.storeSnapshot(identifier, videoCount, stats)
	c.JSON(http.StatusOK, stats)
}

// searchChannels handles channel keyword search requests
func (s *Server) searchChannels(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "q query parameter is required",
		})
		return
	}

	maxResults := defaultSearchResults
	if raw := c.Query("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "maxResults must be a positive integer",
			})
			return
		}
		maxResults = n
	}

	results, err := s.service.SearchChannels(c.Request.Context(), query, maxResults)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// cachedStats returns a snapshot refreshed today, if any.
func (s *Server) cachedStats(identifier string, videoCount int) *models.ChannelStats {
	if s.db == nil {
		return nil
	}

	stats, updated, err := s.db.GetSnapshot(identifier, videoCount)
	if err != nil {
		log.Printf("Error fetching cached stats: %v", err)
		return nil
	}
	if stats == nil {
		return nil
	}

	// Snapshots are only served on the day they were taken
	if updated.UTC().Format("2006-01-02") != time.Now().UTC().Format("2006-01-02") {
		return nil
	}

	log.Printf("Returning cached stats for %s", identifier)
	return stats
}

func (s *Server) storeSnapshot(identifier string, videoCount int, stats *models.ChannelStats) {
	if s.db == nil {
		return
	}
	if err := s.db.StoreSnapshot(identifier, videoCount, stats); err != nil {
		log.Printf("Failed to store stats snapshot: %v", err)
	}
}

func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAuthentication):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
