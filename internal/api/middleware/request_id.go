package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header carrying the request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key of the request ID
	RequestIDKey = "request_id"
	// LoggerKey is the gin context key of the request scoped logger
	LoggerKey = "logger"
)

// RequestIDMiddleware reuses the X-Request-ID header of the request or
// generates a new ID, echoes it in the response and stores a logger carrying
// it in the context.
func RequestIDMiddleware(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(LoggerKey, baseLogger.With(zap.String("request_id", requestID)))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetLogger returns the request scoped logger, or fallback outside of
// RequestIDMiddleware
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if logger, exists := c.Get(LoggerKey); exists {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}

// GetRequestID returns the request ID or an empty string
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
