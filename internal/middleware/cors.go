// internal/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Limit", "X-Offset", "X-Has-More"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	return cors.New(cfg)
}
