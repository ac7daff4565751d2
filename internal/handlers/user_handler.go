package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/dtos"
	"github.com/justsurfingit/jobtrack-ai/internal/services"
)

type UserHandler struct {
	AuthService *services.AuthService
}

func NewUserHandler(a *services.AuthService) *UserHandler {
	return &UserHandler{AuthService: a}
}

// Signup is POST /users/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}
	if _, err := h.AuthService.Signup(c.Request.Context(), req.Email, req.Password); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "User created successfully"})
}

// Login is POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}
	token, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
