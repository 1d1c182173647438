package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger logs every request with a generated request ID for tracing.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		log.Printf("📨 [%s] %s %s from %s", requestID[:8], c.Request.Method, c.Request.URL.Path, c.ClientIP())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		if status >= 500 {
			log.Printf("❌ [%s] %s %s - %d (%v)", requestID[:8], c.Request.Method, c.Request.URL.Path, status, duration)
		} else {
			log.Printf("✅ [%s] %s %s - %d (%v)", requestID[:8], c.Request.Method, c.Request.URL.Path, status, duration)
		}
	}
}
