package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/config"
	"github.com/richxcame/driver-console/pkg/logger"
	"go.uber.org/zap"
)

// RequestTimeout bounds how long a handler may run. Requests that exceed the
// budget get a 504 with the standard envelope and an X-Timeout marker header.
// Route-level overrides (keyed "METHOD:/route/template") win over the default.
func RequestTimeout(cfg *config.TimeoutConfig) gin.HandlerFunc {
	handlers := make(map[string]gin.HandlerFunc, len(cfg.RouteOverrides))
	for route := range cfg.RouteOverrides {
		method, path, ok := splitRouteKey(route)
		if !ok {
			continue
		}
		handlers[method+":"+path] = newTimeoutHandler(cfg.TimeoutForRoute(method, path))
	}

	defaultHandler := newTimeoutHandler(cfg.DefaultRequestTimeoutDuration())

	return func(c *gin.Context) {
		if h, ok := handlers[c.Request.Method+":"+c.FullPath()]; ok {
			h(c)
			return
		}
		defaultHandler(c)
	}
}

func newTimeoutHandler(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithHandler(func(c *gin.Context) {
			c.Next()
		}),
		timeout.WithResponse(func(c *gin.Context) {
			c.Header("X-Timeout", "true")
			common.ErrorResponse(c, http.StatusGatewayTimeout, "Request timeout")

			logger.WithContext(c.Request.Context()).Warn("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Duration("timeout", d),
			)
		}),
	)
}

func splitRouteKey(key string) (method, path string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:], key[:i] != "" && key[i+1:] != ""
		}
	}
	return "", "", false
}
