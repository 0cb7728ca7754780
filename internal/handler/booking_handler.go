package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"court-booking-api/internal/model"
	"court-booking-api/internal/schedule"
)

// resolveClient picks the client reference for a booking: an explicit id
// wins, otherwise an exact trimmed-name match, otherwise no reference at
// all (the denormalized name still gets stored).
func (h *Handler) resolveClient(c *gin.Context, clientID, clientName string) string {
	if clientID != "" {
		return clientID
	}
	if strings.TrimSpace(clientName) == "" {
		return ""
	}
	existing, err := h.store.ClientByName(c.Request.Context(), clientName)
	if err != nil {
		return ""
	}
	return existing.ID
}

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var in struct {
		Court      string  `json:"court" binding:"required"`
		Date       string  `json:"date" binding:"required"` // "2006-01-02"
		TimeSlot   string  `json:"timeSlot" binding:"required"`
		Client     string  `json:"client"`
		ClientName string  `json:"clientName" binding:"required"`
		Deposit    float64 `json:"deposit"`
		Status     string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at, err := schedule.SlotTime(in.Date, in.TimeSlot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := schedule.ValidateNotPast(at, actorRole(c), h.now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot create a booking in the past"})
		return
	}

	b := &model.Booking{
		ID:         uuid.New().String(),
		UserID:     actorID(c),
		CourtID:    in.Court,
		Date:       at,
		TimeSlot:   in.TimeSlot,
		ClientID:   h.resolveClient(c, in.Client, in.ClientName),
		ClientName: in.ClientName,
		Deposit:    in.Deposit,
		Status:     in.Status,
	}
	if err := h.store.CreateBooking(c.Request.Context(), b); err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("created booking for %s on %s at %s", in.ClientName, in.Date, in.TimeSlot))
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/court/:courtId
func (h *Handler) BookingsByCourt(c *gin.Context) {
	out, err := h.store.BookingsByCourt(c.Request.Context(), c.Param("courtId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/court/:courtId/range?startDate=...&endDate=...
func (h *Handler) BookingsByCourtRange(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	from, err := time.ParseInLocation("2006-01-02", startDate, schedule.Zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	until, err := time.ParseInLocation("2006-01-02", endDate, schedule.Zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}
	to := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, schedule.Zone)

	out, err := h.store.BookingsByCourtRange(c.Request.Context(), c.Param("courtId"), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/bookings/:id
func (h *Handler) UpdateBooking(c *gin.Context) {
	var in struct {
		Client     string   `json:"client"`
		ClientName string   `json:"clientName"`
		Deposit    *float64 `json:"deposit"`
		Status     string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.store.BookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	prevClientID := b.ClientID

	if in.ClientName != "" {
		b.ClientName = in.ClientName
	}
	if in.Deposit != nil {
		b.Deposit = *in.Deposit
	}
	if in.Status != "" {
		b.Status = in.Status
	}
	b.ClientID = h.resolveClient(c, in.Client, in.ClientName)

	if err := h.store.UpdateBooking(c.Request.Context(), b, prevClientID); err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("updated booking %s", b.ID))
	c.JSON(http.StatusOK, b)
}

// DELETE /api/bookings/:id (admin)
func (h *Handler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.BookingByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteBooking(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("deleted booking %s", id))
	c.JSON(http.StatusOK, gin.H{"msg": "booking deleted"})
}

// PUT /api/bookings/:id/permanent (admin) — toggle a weekly series on or off
func (h *Handler) TogglePermanence(c *gin.Context) {
	var in struct {
		IsPermanent bool `json:"isPermanent"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.store.BookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if in.IsPermanent {
		endDate := h.now().AddDate(1, 0, 0)
		created, err := h.store.ExpandSeries(c.Request.Context(), b,
			schedule.Occurrences(b.Date), endDate)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.audit.Record(c.Request.Context(), actorName(c),
			fmt.Sprintf("made booking %s permanent", b.ID))
		c.JSON(http.StatusOK, gin.H{"msg": "booking made permanent", "created": len(created)})
		return
	}

	members, err := h.store.SeriesMembers(c.Request.Context(), b.CourtID, b.TimeSlot, b.ClientName)
	if err != nil {
		h.fail(c, err)
		return
	}
	demote, erase := schedule.SplitSeries(members, b.Date)
	if err := h.store.CollapseSeries(c.Request.Context(), ids(demote), ids(erase)); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c),
		fmt.Sprintf("removed permanence from booking %s", b.ID))
	c.JSON(http.StatusOK, gin.H{"msg": "permanence removed", "demoted": len(demote), "deleted": len(erase)})
}

func ids(bookings []model.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}
