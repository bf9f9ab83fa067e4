package service

import (
	"context"
	"time"

	"cinehall/internal/models"
)

// Store interfaces consumed by the services. The Postgres repositories
// implement them; tests substitute in-memory fakes that honor the same
// contracts, including the error taxonomy.

type ReservationStore interface {
	// Allocate creates a PENDING reservation with its tickets
	// atomically, or fails with InvalidSeatError / SeatConflictError
	// leaving no partial state behind.
	Allocate(ctx context.Context, alloc *models.Allocation) (*models.Reservation, error)
	AddTicket(ctx context.Context, reservationID, seatID int64, ticketType models.TicketType, now time.Time) (*models.Reservation, error)
	RemoveTicket(ctx context.Context, reservationID, ticketID int64) (*models.Reservation, error)
	UpdateTicketType(ctx context.Context, reservationID, ticketID int64, ticketType models.TicketType) (*models.Reservation, error)
	Pay(ctx context.Context, reservationID int64, now time.Time) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID int64) (*models.Reservation, error)
	CancelExpired(ctx context.Context, now time.Time) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error)
}

type ScreeningStore interface {
	Create(ctx context.Context, screening *models.Screening) error
	GetByID(ctx context.Context, id int64) (*models.Screening, error)
	List(ctx context.Context, from time.Time, limit int) ([]models.ScreeningSummary, error)
	TakenSeats(ctx context.Context, screeningID int64, now time.Time) (map[int64]bool, error)
}

type MovieStore interface {
	Create(ctx context.Context, movie *models.Movie) error
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
}

type RoomStore interface {
	Create(ctx context.Context, room *models.Room, rows, seatsPerRow int) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
}

type SeatStore interface {
	ListByRoom(ctx context.Context, roomID int64) ([]models.Seat, error)
}

// EventPublisher is the outbound messaging side; the NATS client
// satisfies it. Publishing is best-effort and may be absent entirely.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// ScreeningIndexer is the search read model; the Elasticsearch client
// satisfies it.
type ScreeningIndexer interface {
	IndexScreening(ctx context.Context, screening *models.Screening) error
	SearchScreenings(ctx context.Context, query, date string, from, size int) ([]models.ScreeningSummary, error)
}
