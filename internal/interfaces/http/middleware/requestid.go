// Package middleware holds the gin middleware shared across the HTTP
// surface: request IDs, structured request logging, and panic recovery.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the request-correlation header honoured and echoed by
// the server.
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestID assigns each request a correlation ID, reusing the caller's when
// present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the correlation ID assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
