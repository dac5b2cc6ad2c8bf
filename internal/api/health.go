package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/intake"
	"github.com/lalith-99/practicedesk/internal/middleware"
	"go.uber.org/zap"
)

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// Health handles GET /v1/health.
//
// Health is PUBLIC. Load balancers hit it without a token, and a store
// that cannot be reached means intake cannot work, so it fails with 503.
func Health(check HealthFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(c *gin.Context) {
	middleware.Abort(c, intake.StatusCode(intake.ErrMethodNotAllowed), intake.ErrMethodNotAllowed.Message)
}

func NotFound(c *gin.Context) {
	middleware.Abort(c, http.StatusNotFound, "Not found")
}
