package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/driver-console/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("times out a slow handler", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping timeout test in short mode")
		}

		cfg := &config.TimeoutConfig{
			DefaultRequestTimeout: 1,
			RouteOverrides:        make(map[string]int),
		}

		router := gin.New()
		router.Use(RequestTimeout(cfg))
		router.GET("/slow", func(c *gin.Context) {
			time.Sleep(2 * time.Second)
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		req := httptest.NewRequest(http.MethodGet, "/slow", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "Request timeout")
		assert.Equal(t, "true", w.Header().Get("X-Timeout"))
	})

	t.Run("passes a fast handler through untouched", func(t *testing.T) {
		cfg := &config.TimeoutConfig{
			DefaultRequestTimeout: 2,
			RouteOverrides:        make(map[string]int),
		}

		router := gin.New()
		router.Use(RequestTimeout(cfg))
		router.GET("/fast", func(c *gin.Context) {
			time.Sleep(50 * time.Millisecond)
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		req := httptest.NewRequest(http.MethodGet, "/fast", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Timeout"))
	})

	t.Run("route override wins over the default", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping timeout test in short mode")
		}

		cfg := &config.TimeoutConfig{
			// Default would let the handler finish; the override must not.
			DefaultRequestTimeout: 10,
			RouteOverrides: map[string]int{
				"GET:/report": 1,
			},
		}

		router := gin.New()
		router.Use(RequestTimeout(cfg))
		router.GET("/report", func(c *gin.Context) {
			time.Sleep(2 * time.Second)
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestTimeoutForRoute(t *testing.T) {
	cfg := config.TimeoutConfig{
		DefaultRequestTimeout: 30,
		RouteOverrides: map[string]int{
			"POST:/api/v1/driver/admin/suspend-drivers": 60,
		},
	}

	assert.Equal(t, 30*time.Second, cfg.TimeoutForRoute("GET", "/api/v1/driver/counts"))
	assert.Equal(t, 60*time.Second, cfg.TimeoutForRoute("POST", "/api/v1/driver/admin/suspend-drivers"))
	assert.Equal(t, 30*time.Second, cfg.TimeoutForRoute("GET", "/api/v1/driver/admin/suspend-drivers"))
}
