package service

import (
	"time"

	"cinehall/internal/repository"
)

type Services struct {
	Catalog      *CatalogService
	Screenings   *ScreeningService
	Reservations *ReservationService
}

func NewServices(repos *repository.Repositories, events EventPublisher, indexer ScreeningIndexer, holdTTL time.Duration) *Services {
	catalogService := NewCatalogService(repos.Movies, repos.Rooms)
	screeningService := NewScreeningService(repos.Screenings, repos.Movies, repos.Seats, indexer)
	reservationService := NewReservationService(repos.Reservations, repos.Screenings, events, holdTTL)

	return &Services{
		Catalog:      catalogService,
		Screenings:   screeningService,
		Reservations: reservationService,
	}
}
