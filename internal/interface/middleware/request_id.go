package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key; response envelopes read it.
	RequestIDKey = "request_id"

	maxRequestIDLen = 128
)

// RequestIDMiddleware stores a request id in the Gin context, on the request
// headers for outbound hops, and on the response. A well-formed incoming
// X-Request-ID is kept so ids survive the gateway hop.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Request.Header.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// validRequestID accepts 1-128 visible ASCII characters.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestID returns the id stored by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
