package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"court-booking-api/internal/auth"
	"court-booking-api/internal/model"
)

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
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
	h.audit.Record(c.Request.Context(), u.Name, "registered")

	tok, err := auth.MakeToken(u.ID, u.Name, u.Role, h.secret, h.tokenTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.store.UserByEmail(c.Request.Context(), in.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Name, u.Role, h.secret, h.tokenTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), u.Name, "logged in")
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// POST /api/auth/re-auth — password re-check before sensitive UI actions
func (h *Handler) ReAuth(c *gin.Context) {
	var in struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.store.UserByID(c.Request.Context(), actorID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		return
	}
	h.audit.Record(c.Request.Context(), u.Name, "re-authenticated")
	c.JSON(http.StatusOK, gin.H{"msg": "re-authentication successful"})
}
