package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ErrInvalidReservationAction covers mutations on terminal reservations,
// redundant cancels and malformed requests such as an empty seat list.
var ErrInvalidReservationAction = errors.New("reservation does not allow this action")

// ErrReservationExpired is returned when payment is attempted after the
// reservation hold deadline has lapsed.
var ErrReservationExpired = errors.New("reservation hold has expired")

// ErrScheduleOverlap is returned when a new screening would overlap an
// existing one in the same room.
var ErrScheduleOverlap = errors.New("room already has a screening in this time range")

// SeatConflictError reports seats that are already held by a paid or
// unexpired pending reservation. It always names every conflicting seat so
// the caller can retry with a different selection.
type SeatConflictError struct {
	SeatIDs []int64
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already occupied: %s", joinIDs(e.SeatIDs))
}

// InvalidSeatError reports requested seat ids that do not resolve to seats
// in the screening's room.
type InvalidSeatError struct {
	SeatIDs []int64
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("unknown seats: %s", joinIDs(e.SeatIDs))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
