package repository

import (
	"context"
	"database/sql"

	"cinehall/internal/database"
)

type Repositories struct {
	Users        *UserRepository
	Movies       *MovieRepository
	Rooms        *RoomRepository
	Seats        *SeatRepository
	Screenings   *ScreeningRepository
	Reservations *ReservationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Movies:       NewMovieRepository(db),
		Rooms:        NewRoomRepository(db),
		Seats:        NewSeatRepository(db),
		Screenings:   NewScreeningRepository(db),
		Reservations: NewReservationRepository(db),
	}
}

// queryer abstracts *sql.Tx and *database.DB so availability reads can run
// both inside the allocation transaction and standalone for display.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
