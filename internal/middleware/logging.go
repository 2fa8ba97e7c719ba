// internal/middleware/logging.go
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		userID, _ := c.Get("user_id")
		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"user_id":    userID,
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request processed")
		case status >= 400:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware records every mutating request under the audit component.
func AuditLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for GET requests and health checks
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		c.Next()

		userID, _ := c.Get("user_id")
		logrus.WithFields(logrus.Fields{
			"component":     "audit",
			"action":        c.Request.Method + " " + c.FullPath(),
			"resource_type": extractResourceType(c.Request.URL.Path),
			"resource_id":   extractResourceID(c.Request.URL.Path),
			"status":        c.Writer.Status(),
			"ip":            c.ClientIP(),
			"user_id":       userID,
		}).Info("Audit")
	}
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "v1" && parts[1] == "admin" {
		return parts[2]
	}
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			return part
		}
	}
	return ""
}
