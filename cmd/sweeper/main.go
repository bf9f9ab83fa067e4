package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cinehall/internal/config"
	"cinehall/internal/database"
	"cinehall/internal/jobs"
	"cinehall/internal/logger"
	"cinehall/internal/messaging"
	"cinehall/internal/repository"
)

// The sweeper runs as its own process so API deployments never pause
// expiration, and a crashed sweep cannot take the API down with it.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// NATS Streaming client ids must be unique per connection; do not
	// collide with the API when the id was not set explicitly.
	if os.Getenv("NATS_CLIENT_ID") == "" {
		cfg.NATS.ClientID = "cinehall-sweeper"
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	var events jobs.EventPublisher
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, continuing without event publishing", "error", err)
	} else {
		events = natsClient
		defer natsClient.Close()
	}

	reservations := repository.NewReservationRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := jobs.NewExpirationJob(reservations, events, cfg.SweepInterval)
	job.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down sweeper...")
	job.Stop()
	logger.Get().Info("Sweeper stopped")
}
