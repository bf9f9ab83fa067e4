package handlers

import (
	"log/slog"
	"net/http"

	"cinehall/internal/cache"
	"cinehall/internal/models"

	"github.com/gin-gonic/gin"
)

// Register - POST /api/auth/register
// Identity is an external concern to the reservation core; this endpoint
// exists so Basic Auth works end to end.
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		slog.Error("Failed to look up user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: cache.HashPassword(req.Password),
		FirstName:    req.FirstName,
		Surname:      req.Surname,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		slog.Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": user.UserID})
}
