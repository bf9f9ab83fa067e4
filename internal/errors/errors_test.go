package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatConflictErrorMessage(t *testing.T) {
	err := &SeatConflictError{SeatIDs: []int64{4, 12}}
	assert.Equal(t, "seats already occupied: 4, 12", err.Error())
}

func TestInvalidSeatErrorMessage(t *testing.T) {
	err := &InvalidSeatError{SeatIDs: []int64{99}}
	assert.Equal(t, "unknown seats: 99", err.Error())
}

func TestSentinelsWrapCleanly(t *testing.T) {
	wrapped := fmt.Errorf("%w: duplicate seat 3 in selection", ErrInvalidReservationAction)
	assert.True(t, errors.Is(wrapped, ErrInvalidReservationAction))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}
