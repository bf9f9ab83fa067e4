package handlers

import (
	"net/http"
	"strconv"

	"cinehall/internal/models"

	"github.com/gin-gonic/gin"
)

// Screenings handlers

// CreateScreening - POST /api/screenings
func (h *Handlers) CreateScreening(c *gin.Context) {
	var req models.CreateScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screening, err := h.services.Screenings.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, screening)
}

// ListScreenings - GET /api/screenings
func (h *Handlers) ListScreenings(c *gin.Context) {
	query := c.Query("query")
	date := c.Query("date")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	screenings, err := h.services.Screenings.List(c.Request.Context(), query, date, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, screenings)
}

// GetScreening - GET /api/screenings/:id
func (h *Handlers) GetScreening(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid screening id"})
		return
	}

	screening, err := h.services.Screenings.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, screening)
}

// SeatMap - GET /api/screenings/:id/seats
// Serves the display seat map. Cached briefly in Redis; booking
// decisions never read this view.
func (h *Handlers) SeatMap(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid screening id"})
		return
	}

	if h.cache != nil {
		if rawJSON, err := h.cache.GetSeatMapRaw(c.Request.Context(), id); err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	seatMap, err := h.services.Screenings.SeatMap(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.SetSeatMap(c.Request.Context(), id, seatMap)
	}

	c.JSON(http.StatusOK, seatMap)
}
