package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	logx "github.com/blueplan/technotes-go/internal/technotes/log"
)

// LoggingMiddleware assigns every request an id and logs it on completion.
type LoggingMiddleware struct {
	logger *logx.Logger
}

// NewLoggingMiddleware creates the request logging middleware.
func NewLoggingMiddleware(logger *logx.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// LogRequest returns the gin handler.
func (lm *LoggingMiddleware) LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := logx.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)

		c.Next()

		lm.logger.Info(ctx, "http request",
			logx.KV("method", c.Request.Method),
			logx.KV("path", c.Request.URL.Path),
			logx.KV("status", c.Writer.Status()),
			logx.KV("latency_ms", time.Since(start).Milliseconds()),
			logx.KV("client_ip", c.ClientIP()),
			logx.KV("body_size", c.Writer.Size()))
	}
}

// RecoveryMiddleware converts panics into logged 500 responses.
type RecoveryMiddleware struct {
	logger *logx.Logger
}

// NewRecoveryMiddleware creates the recovery middleware.
func NewRecoveryMiddleware(logger *logx.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{logger: logger}
}

// Recovery returns the gin handler.
func (rm *RecoveryMiddleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		rm.logger.Error(c.Request.Context(), "request panic",
			logx.KV("error", recovered),
			logx.KV("method", c.Request.Method),
			logx.KV("path", c.Request.URL.Path),
			logx.KV("client_ip", c.ClientIP()))

		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}

// RequestSizeLimit rejects bodies larger than the configured maximum.
type RequestSizeLimit struct {
	maxSize int64
	logger  *logx.Logger
}

// NewRequestSizeLimit creates the request size middleware.
func NewRequestSizeLimit(maxSize int64, logger *logx.Logger) *RequestSizeLimit {
	return &RequestSizeLimit{maxSize: maxSize, logger: logger}
}

// LimitRequestSize returns the gin handler.
func (rsl *RequestSizeLimit) LimitRequestSize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > rsl.maxSize {
			rsl.logger.Warn(c.Request.Context(), "request body too large",
				logx.KV("content_length", c.Request.ContentLength),
				logx.KV("max_size", rsl.maxSize),
				logx.KV("path", c.Request.URL.Path))

			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
			c.Abort()
			return
		}
		c.Next()
	}
}
