package models

import (
	"time"
)

// User represents a registered account. Identity is an external concern;
// the reservation core only ever sees the opaque user id.
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// Movie is a catalog entry. Duration feeds screening end-time derivation.
type Movie struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	DurationMin int       `json:"duration_min" db:"duration_min"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Room is an auditorium holding a fixed seat grid.
type Room struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Seat is a physical position within a room. Seats are immutable after
// creation and never deleted while tickets reference them.
type Seat struct {
	ID     int64 `json:"id" db:"id"`
	RoomID int64 `json:"room_id" db:"room_id"`
	Row    int   `json:"row" db:"row_number"`
	Number int   `json:"number" db:"seat_number"`
}

// Screening is a scheduled showing of a movie in a room. EndTime already
// includes the cleanup buffer, so two screenings in the same room are
// non-overlapping on plain [start, end) intervals.
type Screening struct {
	ID            int64     `json:"id" db:"id"`
	MovieID       int64     `json:"movie_id" db:"movie_id"`
	RoomID        int64     `json:"room_id" db:"room_id"`
	StartTime     time.Time `json:"start_time" db:"start_time"`
	EndTime       time.Time `json:"end_time" db:"end_time"`
	PriceStandard int64     `json:"price_standard" db:"price_standard"`
	PriceReduced  int64     `json:"price_reduced" db:"price_reduced"`
	MovieTitle    string    `json:"movie_title,omitempty"`
}

// Reservation is a user's time-bounded claim over a set of seats for one
// screening. TotalPrice is derived from the tickets and kept equal to
// their sum after every mutation. Code is assigned only on payment.
type Reservation struct {
	ID         int64             `json:"id" db:"id"`
	UserID     int64             `json:"user_id" db:"user_id"`
	Status     ReservationStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time         `json:"expires_at" db:"expires_at"`
	Code       *string           `json:"code,omitempty" db:"code"`
	TotalPrice int64             `json:"total_price" db:"total_price"`
	Tickets    []Ticket          `json:"tickets"`
}

// TicketTotal sums the prices of the attached tickets. The invariant
// TotalPrice == TicketTotal() must hold after any mutation.
func (r *Reservation) TicketTotal() int64 {
	var total int64
	for _, t := range r.Tickets {
		total += t.Price
	}
	return total
}

// ScreeningID returns the screening the reservation's tickets belong to,
// or 0 for an empty (already cancelled) reservation. All tickets of one
// reservation reference the same screening.
func (r *Reservation) ScreeningID() int64 {
	if len(r.Tickets) == 0 {
		return 0
	}
	return r.Tickets[0].ScreeningID
}

// Ticket links one seat, one screening and one reservation. Price is
// fixed from the screening tier when the ticket is created or retyped.
// Code is assigned when the parent reservation is paid.
type Ticket struct {
	ID            int64      `json:"id" db:"id"`
	ReservationID int64      `json:"reservation_id" db:"reservation_id"`
	ScreeningID   int64      `json:"screening_id" db:"screening_id"`
	SeatID        int64      `json:"seat_id" db:"seat_id"`
	Type          TicketType `json:"type" db:"type"`
	Price         int64      `json:"price" db:"price"`
	Code          *string    `json:"code,omitempty" db:"code"`
}
