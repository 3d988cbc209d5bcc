package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/rs/zerolog"
)

// Logger creates a logging middleware
func Logger(logger zerolog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Request.URI().Path())
		method := string(c.Request.Method())

		c.Next(ctx)

		logger.Info().
			Str("method", method).
			Str("path", path).
			Int("status", c.Response.StatusCode()).
			Dur("latency", time.Since(start)).
			Str("request_id", GetRequestID(c)).
			Msg("request")
	}
}
