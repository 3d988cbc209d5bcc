package routes

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	OK bool `json:"ok"`
}

// Status handles the GET /status endpoint
// Health check; the response never depends on the request
func Status(logger zerolog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		logger.Info().Msg("received GET /status")
		c.JSON(consts.StatusOK, StatusResponse{OK: true})
	}
}
