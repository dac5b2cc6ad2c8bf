package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/middleware"
	"go.uber.org/zap"
)

// RouterConfig is everything NewRouter wires together.
type RouterConfig struct {
	Intake        IntakeService
	Authenticator middleware.Authenticator
	Health        HealthFunc
	// Metrics serves GET /metrics. Nil leaves the route out.
	Metrics http.Handler
	// RateLimit runs before authentication on the intake routes. Nil
	// disables limiting.
	RateLimit gin.HandlerFunc
	// TrustedProxies are the addresses whose X-Forwarded-For is believed
	// when working out the client IP. Empty trusts no one.
	TrustedProxies []string
	Logger         *zap.Logger
}

// NewRouter builds the HTTP surface.
//
// Route map:
//
//	GET  /v1/health      public, pings the store
//	GET  /metrics        public, Prometheus text format
//	POST /v1/siri/tasks  rate limit -> token -> intake
//	POST /addTask        same handler, for shortcuts built against the old URL
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()

	// gin trusts every proxy by default, which would let a caller pick its
	// own rate-limit key with a forged X-Forwarded-For.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	// Any other method on a known path is a 405 in the envelope shortcuts
	// understand, not gin's default 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed)
	r.NoRoute(NotFound)

	r.Use(middleware.RequestLogger(cfg.Logger), gin.Recovery(), middleware.CORS())

	r.GET("/v1/health", Health(cfg.Health, cfg.Logger))
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	chain := make([]gin.HandlerFunc, 0, 3)
	if cfg.RateLimit != nil {
		chain = append(chain, cfg.RateLimit)
	}
	handler := NewIntakeHandler(cfg.Intake, cfg.Logger)
	chain = append(chain, middleware.SiriToken(cfg.Authenticator), handler.Handle)

	r.POST("/v1/siri/tasks", chain...)
	r.POST("/addTask", chain...)

	return r, nil
}
