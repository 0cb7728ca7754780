package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"court-booking-api/internal/auth"
	"court-booking-api/internal/model"
)

// POST /api/users (admin)
func (h *Handler) CreateUser(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := in.Role
	if role != model.RoleAdmin {
		role = model.RoleUser
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("created user %s", u.Name))
	c.JSON(http.StatusCreated, u)
}

// GET /api/users (admin)
func (h *Handler) ListUsers(c *gin.Context) {
	out, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/users/:id (admin)
func (h *Handler) UpdateUser(c *gin.Context) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.store.UserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role == model.RoleAdmin || in.Role == model.RoleUser {
		u.Role = in.Role
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
			return
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		u.PasswordHash = hash
	}

	if err := h.store.UpdateUser(c.Request.Context(), u); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("updated user %s", u.Name))
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id (admin)
func (h *Handler) DeleteUser(c *gin.Context) {
	u, err := h.store.UserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), u.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), actorName(c), fmt.Sprintf("deleted user %s", u.Name))
	c.JSON(http.StatusOK, gin.H{"msg": "user removed"})
}
