package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"court-booking-api/internal/model"
	"court-booking-api/internal/pricing"
)

// POST /api/courts (admin)
func (h *Handler) CreateCourt(c *gin.Context) {
	var in struct {
		Name           string        `json:"name" binding:"required"`
		Color          string        `json:"color" binding:"required"`
		CreateOriginal bool          `json:"createOriginal"`
		Pricing        model.Pricing `json:"pricing"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	court := &model.Court{
		ID:      uuid.New().String(),
		Name:    in.Name,
		Color:   in.Color,
		Pricing: pricing.Clamp(in.Pricing),
	}
	if err := h.store.CreateCourt(c.Request.Context(), court); err != nil {
		h.fail(c, err)
		return
	}

	// a template twin that never takes bookings directly
	if in.CreateOriginal {
		original := &model.Court{
			ID:         uuid.New().String(),
			Name:       in.Name + " (Original)",
			Color:      in.Color,
			IsOriginal: true,
			Pricing:    court.Pricing,
		}
		if err := h.store.CreateCourt(c.Request.Context(), original); err != nil {
			h.fail(c, err)
			return
		}
	}

	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("created court %s", court.Name))
	c.JSON(http.StatusOK, court)
}

// GET /api/courts
func (h *Handler) ListCourts(c *gin.Context) {
	out, err := h.store.ListCourts(c.Request.Context(), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/courts/originals
func (h *Handler) ListOriginalCourts(c *gin.Context) {
	out, err := h.store.ListCourts(c.Request.Context(), true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/courts/:id (admin)
func (h *Handler) UpdateCourt(c *gin.Context) {
	var in struct {
		Name    string         `json:"name"`
		Color   string         `json:"color"`
		Pricing *model.Pricing `json:"pricing"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	court, err := h.store.CourtByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if in.Name != "" {
		court.Name = in.Name
	}
	if in.Color != "" {
		court.Color = in.Color
	}
	if in.Pricing != nil {
		court.Pricing = pricing.Clamp(*in.Pricing)
	}

	if err := h.store.UpdateCourt(c.Request.Context(), court); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("updated court %s", court.Name))
	c.JSON(http.StatusOK, court)
}

// DELETE /api/courts/:id (admin)
func (h *Handler) DeleteCourt(c *gin.Context) {
	court, err := h.store.CourtByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteCourt(c.Request.Context(), court.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("deleted court %s", court.Name))
	c.JSON(http.StatusOK, gin.H{"msg": "court deleted"})
}
