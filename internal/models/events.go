package models

import "time"

// NATS event types
const (
	EventReservationCreated   = "reservation.created"
	EventReservationPaid      = "reservation.paid"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationExpired   = "reservation.expired"
	EventTicketAdded          = "ticket.added"
	EventTicketRemoved        = "ticket.removed"
)

// ReservationCreatedEvent is published after a successful allocation.
type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	ScreeningID   int64     `json:"screening_id"`
	UserID        int64     `json:"user_id"`
	SeatIDs       []int64   `json:"seat_ids"`
	ExpiresAt     time.Time `json:"expires_at"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationPaidEvent is published once payment is confirmed; the
// ticketing/notification side uses it to render deliverables.
type ReservationPaidEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Code          string    `json:"code"`
	TotalPrice    int64     `json:"total_price"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationCancelledEvent is published on explicit cancellation or
// the zero-ticket cascade.
type ReservationCancelledEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationExpiredEvent is published by the sweeper for each
// reservation whose hold lapsed.
type ReservationExpiredEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// TicketChangedEvent is published when a ticket is added to or removed
// from a pending reservation.
type TicketChangedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	TicketID      int64     `json:"ticket_id"`
	SeatID        int64     `json:"seat_id"`
	Timestamp     time.Time `json:"timestamp"`
}
