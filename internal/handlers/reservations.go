package handlers

import (
	"net/http"
	"strconv"

	"cinehall/internal/models"

	"github.com/gin-gonic/gin"
)

// Reservations handlers

// CreateReservation - POST /api/reservations
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservation, err := h.services.Reservations.Create(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateSeatMap(c, reservation.ScreeningID())

	c.JSON(http.StatusCreated, reservation)
}

// ListReservations - GET /api/reservations
func (h *Handlers) ListReservations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservations, err := h.services.Reservations.ListByUser(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// GetReservation - GET /api/reservations/:id
func (h *Handlers) GetReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.services.Reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// AddTicket - POST /api/reservations/:id/tickets
func (h *Handlers) AddTicket(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	var req models.AddTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.services.Reservations.AddTicket(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateSeatMap(c, reservation.ScreeningID())

	c.JSON(http.StatusOK, reservation)
}

// RemoveTicket - DELETE /api/reservations/:id/tickets/:ticketID
func (h *Handlers) RemoveTicket(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}
	ticketID, err := pathID(c, "ticketID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	reservation, err := h.services.Reservations.RemoveTicket(c.Request.Context(), id, ticketID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateTicketType - PATCH /api/reservations/:id/tickets/:ticketID
func (h *Handlers) UpdateTicketType(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}
	ticketID, err := pathID(c, "ticketID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req models.UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.services.Reservations.UpdateTicketType(c.Request.Context(), id, ticketID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// PayReservation - POST /api/reservations/:id/pay
func (h *Handlers) PayReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.services.Reservations.Pay(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation - POST /api/reservations/:id/cancel
func (h *Handlers) CancelReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.services.Reservations.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateSeatMap(c, reservation.ScreeningID())

	c.JSON(http.StatusOK, reservation)
}

func (h *Handlers) invalidateSeatMap(c *gin.Context, screeningID int64) {
	if h.cache == nil || screeningID == 0 {
		return
	}
	h.cache.InvalidateSeatMap(c.Request.Context(), screeningID)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
