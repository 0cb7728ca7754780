package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/logs (admin) — newest first
func (h *Handler) ListLogs(c *gin.Context) {
	out, err := h.store.ListLogs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
