package handlers

import (
	"errors"
	"net/http"

	"cinehall/internal/cache"
	"cinehall/internal/repository"
	"cinehall/internal/service"

	apperrors "cinehall/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
	users    *repository.UserRepository
	cache    *cache.Client
}

func NewHandlers(services *service.Services, users *repository.UserRepository, redisClient *cache.Client) *Handlers {
	return &Handlers{
		services: services,
		users:    users,
		cache:    redisClient,
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Every taxonomy
// error is recoverable and carries enough context for the client to
// retry with a different selection.
func writeError(c *gin.Context, err error) {
	var conflict *apperrors.SeatConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":             "seats already occupied",
			"conflicting_seats": conflict.SeatIDs,
		})
		return
	}

	var invalidSeat *apperrors.InvalidSeatError
	if errors.As(err, &invalidSeat) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "unknown seats",
			"unknown_seats": invalidSeat.SeatIDs,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrReservationExpired):
		c.JSON(http.StatusGone, gin.H{"error": "reservation hold has expired"})
	case errors.Is(err, apperrors.ErrInvalidReservationAction):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrScheduleOverlap):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// userID returns the authenticated user id set by the Basic Auth
// middleware.
func userID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
