package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"cinehall/internal/cache"
	"cinehall/internal/config"
	"cinehall/internal/database"
	"cinehall/internal/handlers"
	"cinehall/internal/messaging"
	"cinehall/internal/middleware"
	"cinehall/internal/repository"
	"cinehall/internal/search"
	"cinehall/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API: store, cache, search, messaging, services
// and routes.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.Client
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis, Elasticsearch and NATS are read-model / side-channel
	// dependencies; the reservation core stays correct without them.
	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	esClient, err := search.NewClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, continuing without search", "error", err)
		esClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, continuing without event publishing", "error", err)
		natsClient = nil
	}

	repos := repository.NewRepositories(db)

	var events service.EventPublisher
	if natsClient != nil {
		events = natsClient
	}
	var indexer service.ScreeningIndexer
	if esClient != nil {
		indexer = esClient
	}

	services := service.NewServices(repos, events, indexer, cfg.HoldTTL)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.repos.Users, s.redis)

	api := s.router.Group("/api")
	{
		// Public surface: registration and browse.
		api.POST("/auth/register", h.Register)

		api.GET("/screenings", h.ListScreenings)
		api.GET("/screenings/:id", h.GetScreening)
		api.GET("/screenings/:id/seats", h.SeatMap)
		api.GET("/movies", h.ListMovies)

		// Everything below requires authentication.
		authed := api.Group("")
		authed.Use(middleware.BasicAuth(s.repos.Users, s.redis))
		{
			authed.POST("/movies", h.CreateMovie)
			authed.POST("/rooms", h.CreateRoom)
			authed.POST("/screenings", h.CreateScreening)

			reservations := authed.Group("/reservations")
			{
				reservations.POST("", h.CreateReservation)
				reservations.GET("", h.ListReservations)
				reservations.GET("/:id", h.GetReservation)
				reservations.POST("/:id/tickets", h.AddTicket)
				reservations.DELETE("/:id/tickets/:ticketID", h.RemoveTicket)
				reservations.PATCH("/:id/tickets/:ticketID", h.UpdateTicketType)
				reservations.POST("/:id/pay", h.PayReservation)
				reservations.POST("/:id/cancel", h.CancelReservation)
			}
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"service":  "cinehall-api",
		"database": dbHealth,
	})
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes outbound connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
