// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/cardshop/internal/i18n"
	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

func bearerClaims(c *gin.Context) (*utils.JWTClaims, bool, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false, true
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, true, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, true, false
	}
	return claims, true, true
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		claims, present, valid := bearerClaims(c)
		if !present {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}
		if !valid {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := utils.GetRoleFromContext(c)
		if !exists || role != string(models.UserRoleAdmin) {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set user info in context if token is valid
		if claims, _, valid := bearerClaims(c); valid && claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}
