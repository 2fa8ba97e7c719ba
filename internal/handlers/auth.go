// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/services"
	"github.com/javajoker/cardshop/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"user":       authResponse.User,
		"token":      authResponse.AccessToken,
		"token_type": authResponse.TokenType,
		"expires_in": authResponse.ExpiresIn,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"user":       authResponse.User,
		"token":      authResponse.AccessToken,
		"token_type": authResponse.TokenType,
		"expires_in": authResponse.ExpiresIn,
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}
