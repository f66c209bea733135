package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configures cross-origin access for the console frontend.
// Allowed origins come in comma-separated from config (CORS_ORIGINS).
func CORS(origins string) gin.HandlerFunc {
	allowed := []string{"http://localhost:3000"}
	if origins != "" {
		allowed = allowed[:0]
		for _, o := range strings.Split(origins, ",") {
			allowed = append(allowed, strings.TrimSpace(o))
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
