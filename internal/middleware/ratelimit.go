package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const rateLimitPrefix = "siri:ratelimit"

// RateLimit returns a per-IP limiter for the intake routes.
//
// rate uses the limiter's formatted syntax ("30-M" is 30 per minute).
// With a Redis client the counters are shared by every instance;
// without one each process counts on its own.
//
// Why limit at all?
//   - The token is the only thing standing between the internet and the
//     task store. Throttling per address makes guessing tokens slow.
func RateLimit(rate string, client *redis.Client, logger *zap.Logger) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", rate, err)
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("create redis rate limit store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	return mgin.NewMiddleware(limiter.New(store, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			Abort(c, http.StatusTooManyRequests, "Too many requests")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// A broken limiter store must not take intake down with it.
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
		}),
	), nil
}
