package models

// ReservationStatus is the lifecycle state of a reservation.
// PENDING is the only non-terminal state.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusPaid      ReservationStatus = "PAID"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// transitions is the single source of truth for legal status changes.
// Every store mutation consults it instead of re-deriving legality locally.
var transitions = map[ReservationStatus]map[ReservationStatus]bool{
	StatusPending: {
		StatusPaid:      true,
		StatusCancelled: true,
	},
	StatusPaid:      {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	return allowed[next]
}

// Terminal reports whether no further transitions are possible from s.
func (s ReservationStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// TicketType selects the screening price tier a ticket is charged at.
type TicketType string

const (
	TicketStandard TicketType = "STANDARD"
	TicketReduced  TicketType = "REDUCED"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	return t == TicketStandard || t == TicketReduced
}

// Price resolves the ticket price in cents from the screening's tiers.
// This is the sole price-resolution point; additional tiers or dynamic
// pricing would hook in here.
func (t TicketType) Price(s *Screening) int64 {
	if t == TicketReduced {
		return s.PriceReduced
	}
	return s.PriceStandard
}
