package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// AuthHandler serves the auth module.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// GoogleLogin exchanges a Google ID token for an application session.
// POST /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "A Google ID token is required.")
		return
	}

	result, err := h.authSvc.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
