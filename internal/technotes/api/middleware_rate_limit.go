package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blueplan/technotes-go/internal/technotes/limiter"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
)

// RateLimitMiddleware applies a per-caller request budget.
type RateLimitMiddleware struct {
	limiter limiter.Limiter
	logger  *logx.Logger
}

// NewRateLimitMiddleware creates the rate limit middleware.
func NewRateLimitMiddleware(l limiter.Limiter, logger *logx.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: l, logger: logger}
}

// RateLimit returns the gin handler. Limiter failures let the request
// through; the limiter must not take the API down with it.
func (rlm *RateLimitMiddleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)

		allowed, err := rlm.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			rlm.logger.Error(c.Request.Context(), "rate limit check failed",
				logx.KV("error", err),
				logx.KV("key", key))
			c.Next()
			return
		}

		info, err := rlm.limiter.Info(c.Request.Context(), key)
		if err == nil && info != nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			rlm.logger.Warn(c.Request.Context(), "request rate limited",
				logx.KV("key", key),
				logx.KV("path", c.Request.URL.Path),
				logx.KV("method", c.Request.Method))

			if info != nil {
				c.Header("Retry-After", fmt.Sprintf("%.0f", time.Until(info.ResetTime).Seconds()))
			}
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "default"
}
