package http

import (
	"errors"
	"net/http"

	"jungleboard/internal/entity"

	"github.com/gin-gonic/gin"
)

// UserPayload is the public slice of a user returned by the auth endpoints.
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type AuthResponse struct {
	User  UserPayload `json:"user"`
	Token string      `json:"token"`
}

// respondError maps the failure taxonomy onto HTTP statuses. Anything outside
// the taxonomy is logged by the caller and surfaced as a generic 500 so no
// store detail leaks.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
	case errors.Is(err, entity.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username taken"})
	case errors.Is(err, entity.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
