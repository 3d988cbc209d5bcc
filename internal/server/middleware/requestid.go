package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID echoes an inbound X-Request-ID or assigns a new UUID
func RequestID() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := string(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Response.Header.Set(RequestIDHeader, id)

		c.Next(ctx)
	}
}

// GetRequestID returns the ID assigned by RequestID, or "" if the middleware did not run
func GetRequestID(c *app.RequestContext) string {
	return c.GetString(requestIDKey)
}
