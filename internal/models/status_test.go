package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to pending", StatusPending, StatusPending, false},
		{"paid to cancelled", StatusPaid, StatusCancelled, false},
		{"paid to pending", StatusPaid, StatusPending, false},
		{"paid to paid", StatusPaid, StatusPaid, false},
		{"cancelled to paid", StatusCancelled, StatusPaid, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
		{"unknown status", ReservationStatus("REFUNDED"), StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReservationStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestTicketTypeValid(t *testing.T) {
	assert.True(t, TicketStandard.Valid())
	assert.True(t, TicketReduced.Valid())
	assert.False(t, TicketType("").Valid())
	assert.False(t, TicketType("VIP").Valid())
}

func TestTicketTypePrice(t *testing.T) {
	screening := &Screening{PriceStandard: 2500, PriceReduced: 1500}

	assert.Equal(t, int64(2500), TicketStandard.Price(screening))
	assert.Equal(t, int64(1500), TicketReduced.Price(screening))
}

func TestReservationTicketTotal(t *testing.T) {
	res := &Reservation{
		Tickets: []Ticket{
			{Price: 2500},
			{Price: 1500},
			{Price: 2500},
		},
	}
	assert.Equal(t, int64(6500), res.TicketTotal())

	empty := &Reservation{}
	assert.Equal(t, int64(0), empty.TicketTotal())
}

func TestReservationScreeningID(t *testing.T) {
	res := &Reservation{
		Tickets: []Ticket{{ScreeningID: 42}, {ScreeningID: 42}},
	}
	assert.Equal(t, int64(42), res.ScreeningID())

	empty := &Reservation{}
	assert.Equal(t, int64(0), empty.ScreeningID())
}
