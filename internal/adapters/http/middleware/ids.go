// Package middleware holds the gin middleware of the quotebook API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// Headers and gin keys for the IDs carried on every request. A chat gateway
// sets X-Correlation-ID to the platform interaction ID so one interaction can
// be followed across its follow-up requests.
const (
	HeaderRequestID         = "X-Request-ID"
	HeaderCorrelationID     = "X-Correlation-ID"
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"

	maxIDLen = 128
)

// idHeader is an ID that is taken from a request header when usable, minted
// otherwise, and echoed back.
type idHeader struct {
	header string
	key    string
	attach func(context.Context, string) context.Context
}

// RequestID keeps a usable X-Request-ID or mints a UUID, echoes it and adds it
// to the request logger.
func RequestID() gin.HandlerFunc {
	return idHeader{HeaderRequestID, ContextKeyRequestID, logging.WithRequestID}.handler()
}

// CorrelationID does for X-Correlation-ID what RequestID does for X-Request-ID.
func CorrelationID() gin.HandlerFunc {
	return idHeader{HeaderCorrelationID, ContextKeyCorrelationID, logging.WithCorrelationID}.handler()
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c *gin.Context) string { return c.GetString(ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID, or "" outside CorrelationID.
func GetCorrelationID(c *gin.Context) string { return c.GetString(ContextKeyCorrelationID) }

func (h idHeader) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if !validID(id) {
			id = uuid.NewString()
		}

		c.Set(h.key, id)
		c.Header(h.header, id)
		c.Request = c.Request.WithContext(h.attach(c.Request.Context(), id))

		c.Next()
	}
}

// validID reports whether a caller's ID is safe to echo and log: non-empty,
// at most maxIDLen bytes, visible ASCII only.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLen {
		return false
	}

	return strings.IndexFunc(id, func(r rune) bool { return r <= ' ' || r > '~' }) < 0
}
