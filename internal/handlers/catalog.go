package handlers

import (
	"net/http"

	"cinehall/internal/models"

	"github.com/gin-gonic/gin"
)

// Catalog handlers (movies, rooms)

// CreateMovie - POST /api/movies
func (h *Handlers) CreateMovie(c *gin.Context) {
	var req models.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DurationMin <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_min must be positive"})
		return
	}

	movie, err := h.services.Catalog.CreateMovie(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movie)
}

// ListMovies - GET /api/movies
func (h *Handlers) ListMovies(c *gin.Context) {
	movies, err := h.services.Catalog.ListMovies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

// CreateRoom - POST /api/rooms
// Creates the room with its full seat grid in one shot.
func (h *Handlers) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rows < 1 || req.SeatsPerRow < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows and seats_per_row must be positive"})
		return
	}

	room, err := h.services.Catalog.CreateRoom(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}
