package models

import "time"

// TicketRequest is one (seat, type) pair of a reservation request.
// An empty type defaults to STANDARD.
type TicketRequest struct {
	SeatID int64      `json:"seat_id" binding:"required"`
	Type   TicketType `json:"type"`
}

// Allocation carries everything the store needs to materialize a
// reservation inside one locking transaction.
type Allocation struct {
	Screening *Screening
	UserID    int64
	Requests  []TicketRequest
	Now       time.Time
	ExpiresAt time.Time
}

// CreateReservationRequest - POST /api/reservations
type CreateReservationRequest struct {
	ScreeningID int64           `json:"screening_id" binding:"required"`
	Seats       []TicketRequest `json:"seats"`
}

// AddTicketRequest - POST /api/reservations/:id/tickets
type AddTicketRequest struct {
	SeatID int64      `json:"seat_id" binding:"required"`
	Type   TicketType `json:"type"`
}

// UpdateTicketTypeRequest - PATCH /api/reservations/:id/tickets/:ticketID
type UpdateTicketTypeRequest struct {
	Type TicketType `json:"type" binding:"required"`
}

// CreateMovieRequest - POST /api/movies
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required"`
	DurationMin int    `json:"duration_min" binding:"required"`
}

// CreateRoomRequest - POST /api/rooms
// Creates the room together with its full seat grid.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Rows        int    `json:"rows" binding:"required"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required"`
}

// CreateScreeningRequest - POST /api/screenings
type CreateScreeningRequest struct {
	MovieID       int64     `json:"movie_id" binding:"required"`
	RoomID        int64     `json:"room_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	PriceStandard int64     `json:"price_standard" binding:"required"`
	PriceReduced  int64     `json:"price_reduced" binding:"required"`
}

// RegisterRequest - POST /api/auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
}

// SeatMapItem is one seat of the read-only seat map for a screening.
// Taken is computed from ticket state, never stored on the seat row.
type SeatMapItem struct {
	ID     int64 `json:"id"`
	Row    int   `json:"row"`
	Number int   `json:"number"`
	Taken  bool  `json:"taken"`
}

// ScreeningSummary is the search/browse projection of a screening.
type ScreeningSummary struct {
	ID         int64     `json:"id"`
	MovieTitle string    `json:"movie_title"`
	RoomID     int64     `json:"room_id"`
	StartTime  time.Time `json:"start_time"`
}
