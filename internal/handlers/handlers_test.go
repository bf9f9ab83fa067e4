package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "cinehall/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"expired hold", apperrors.ErrReservationExpired, http.StatusGone},
		{"invalid action", apperrors.ErrInvalidReservationAction, http.StatusConflict},
		{"wrapped invalid action", fmt.Errorf("%w: empty seat selection", apperrors.ErrInvalidReservationAction), http.StatusConflict},
		{"schedule overlap", apperrors.ErrScheduleOverlap, http.StatusConflict},
		{"seat conflict", &apperrors.SeatConflictError{SeatIDs: []int64{4}}, http.StatusConflict},
		{"unknown seat", &apperrors.InvalidSeatError{SeatIDs: []int64{99}}, http.StatusBadRequest},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWriteErrorSeatConflictNamesSeats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, &apperrors.SeatConflictError{SeatIDs: []int64{2, 5}})

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error            string  `json:"error"`
		ConflictingSeats []int64 `json:"conflicting_seats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int64{2, 5}, body.ConflictingSeats)
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, errors.New("pq: connection reset"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}
