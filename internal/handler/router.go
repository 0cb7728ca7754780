package handler

import (
	"github.com/gin-gonic/gin"

	"court-booking-api/internal/middleware"
)

// Router wires the API surface. Every route past /api/auth requires a
// bearer token; admin gates sit on the mutating/reporting endpoints.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	authed := middleware.JWTAuth(h.secret)
	admin := middleware.RequireAdmin()
	rl := middleware.RateLimit(middleware.NewRateLimiter(5, 10))

	api := r.Group("/api")

	a := api.Group("/auth")
	a.POST("/register", rl, h.Register)
	a.POST("/login", rl, h.Login)
	a.POST("/re-auth", authed, h.ReAuth)

	b := api.Group("/bookings", authed)
	b.POST("", h.CreateBooking)
	b.GET("/court/:courtId", h.BookingsByCourt)
	b.GET("/court/:courtId/range", h.BookingsByCourtRange)
	b.PUT("/:id", h.UpdateBooking)
	b.DELETE("/:id", admin, h.DeleteBooking)
	b.PUT("/:id/permanent", admin, h.TogglePermanence)

	cl := api.Group("/clients", authed)
	cl.POST("", admin, h.CreateClient)
	cl.GET("", h.ListClients)
	cl.GET("/:id/stats", h.ClientStats)
	cl.GET("/:id/bookings", h.ClientBookings)
	cl.PUT("/:id", admin, h.UpdateClient)
	cl.DELETE("/:id", admin, h.DeleteClient)

	co := api.Group("/courts", authed)
	co.POST("", admin, h.CreateCourt)
	co.GET("", h.ListCourts)
	co.GET("/originals", h.ListOriginalCourts)
	co.PUT("/:id", admin, h.UpdateCourt)
	co.DELETE("/:id", admin, h.DeleteCourt)

	u := api.Group("/users", authed, admin)
	u.POST("", h.CreateUser)
	u.GET("", h.ListUsers)
	u.PUT("/:id", h.UpdateUser)
	u.DELETE("/:id", h.DeleteUser)

	api.GET("/logs", authed, admin, h.ListLogs)

	st := api.Group("/stats", authed, admin)
	st.GET("/clients", h.ClientStatsByPeriod)
	st.GET("/clients/export", h.ExportClientStats)
	st.GET("/financial", h.FinancialStats)
	st.GET("/financial/export", h.ExportFinancialStats)

	return r
}
