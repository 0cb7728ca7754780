package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"court-booking-api/internal/model"
	"court-booking-api/internal/stats"
)

// POST /api/clients (admin)
func (h *Handler) CreateClient(c *gin.Context) {
	var in struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &model.Client{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Bookings: []string{},
	}
	if err := h.store.CreateClient(c.Request.Context(), client); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("created client %s", client.Name))
	c.JSON(http.StatusCreated, client)
}

// GET /api/clients
func (h *Handler) ListClients(c *gin.Context) {
	out, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/clients/:id (admin)
func (h *Handler) UpdateClient(c *gin.Context) {
	var in struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.store.ClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	client.Name = in.Name
	client.Phone = in.Phone
	if in.Email != "" {
		client.Email = in.Email
	}
	if err := h.store.UpdateClient(c.Request.Context(), client); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("updated client %s", client.Name))
	c.JSON(http.StatusOK, client)
}

// DELETE /api/clients/:id (admin)
func (h *Handler) DeleteClient(c *gin.Context) {
	client, err := h.store.ClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteClient(c.Request.Context(), client.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("deleted client %s", client.Name))
	c.JSON(http.StatusOK, gin.H{"msg": "client removed"})
}

// GET /api/clients/:id/stats — whole-history summary for one client
func (h *Handler) ClientStats(c *gin.Context) {
	client, err := h.store.ClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	agg, err := h.store.AggregateClient(c.Request.Context(), client.ID, client.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	arrivalRate := 0.0
	if agg.TotalBookings > 0 {
		arrivalRate = float64(agg.ArrivedBookings) / float64(agg.TotalBookings)
	}

	c.JSON(http.StatusOK, gin.H{
		"client": gin.H{
			"id":    client.ID,
			"name":  client.Name,
			"phone": client.Phone,
			"email": client.Email,
		},
		"totalBookings":   agg.TotalBookings,
		"arrivedBookings": agg.ArrivedBookings,
		"arrivalRate":     arrivalRate,
		"totalDeposit":    agg.TotalDeposit,
		"avgDeposit":      agg.AvgDeposit,
		"lastBooking":     agg.LastBooking,
	})
}

// GET /api/clients/:id/bookings — newest first, matched by id or name
func (h *Handler) ClientBookings(c *gin.Context) {
	client, err := h.store.ClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.store.BookingsForClient(c.Request.Context(), client.ID, client.Name, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// clientPeriodStats is shared by the stats endpoint and the Excel export.
func (h *Handler) clientPeriodStats(c *gin.Context) ([]clientStatRow, error) {
	from, to := stats.Window(c.DefaultQuery("type", stats.PeriodWeek), h.now())

	clients, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		return nil, err
	}

	out := make([]clientStatRow, 0, len(clients))
	for _, cl := range clients {
		rows, err := h.store.ClientRows(c.Request.Context(), cl.ID, cl.Name, from, to)
		if err != nil {
			return nil, err
		}
		sum := stats.SummarizeClient(rows, h.now())
		out = append(out, clientStatRow{
			ID:              cl.ID,
			Name:            cl.Name,
			Phone:           cl.Phone,
			Email:           cl.Email,
			BookingsCount:   sum.BookingsCount,
			AttendanceCount: sum.AttendanceCount,
			AttendanceRate:  sum.AttendanceRate,
			TotalIncome:     sum.TotalIncome,
		})
	}
	return out, nil
}

type clientStatRow struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	BookingsCount   int     `json:"bookingsCount"`
	AttendanceCount int     `json:"attendanceCount"`
	AttendanceRate  float64 `json:"attendanceRate"`
	TotalIncome     float64 `json:"totalCalculatedIncome"`
}
