package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blueplan/technotes-go/internal/technotes/config"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
)

// CORSMiddleware applies the configured origin allow-list.
type CORSMiddleware struct {
	origins []string
	logger  *logx.Logger
}

// NewCORSMiddleware creates the CORS middleware.
func NewCORSMiddleware(cfg *config.APIConfig, logger *logx.Logger) *CORSMiddleware {
	return &CORSMiddleware{
		origins: cfg.CORSOrigins,
		logger:  logger,
	}
}

// CORS returns the gin handler.
func (cm *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if cm.isOriginAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		// Short-circuit preflight requests.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isOriginAllowed checks the origin against the allow-list; entries may carry
// a leading or trailing wildcard.
func (cm *CORSMiddleware) isOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	for _, allowed := range cm.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if strings.HasPrefix(allowed, "*") && strings.HasSuffix(origin, allowed[1:]) {
			return true
		}
		if strings.HasSuffix(allowed, "*") && strings.HasPrefix(origin, allowed[:len(allowed)-1]) {
			return true
		}
	}
	return false
}
