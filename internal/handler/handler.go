package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"court-booking-api/internal/audit"
	"court-booking-api/internal/middleware"
	"court-booking-api/internal/store"
)

type Handler struct {
	store    *store.Store
	audit    *audit.Recorder
	secret   string
	tokenTTL time.Duration

	// injectable clock for the date-sensitive paths
	now func() time.Time
}

func New(st *store.Store, rec *audit.Recorder, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{store: st, audit: rec, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

func actorName(c *gin.Context) string {
	return c.GetString(middleware.UserNameKey)
}

func actorRole(c *gin.Context) string {
	return c.GetString(middleware.RoleKey)
}

func actorID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// fail maps store errors onto the API's status codes; anything unexpected
// becomes a generic 500 with no internal detail.
func (h *Handler) fail(c *gin.Context, err error) {
	var dup *store.DuplicateError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate value", "field": dup.Field})
	default:
		log.Printf("internal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
