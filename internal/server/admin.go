package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/api"
)

// AdminGuard protects provisioning and job-trigger routes with a shared
// bearer secret. An empty configured token disables the admin surface
// entirely rather than leaving it open.
func AdminGuard(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin API disabled"})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authorization header required"})
			c.Abort()
			return
		}

		provided := strings.TrimSpace(parts[1])
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid admin token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
