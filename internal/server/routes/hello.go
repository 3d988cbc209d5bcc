package routes

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"
)

// DefaultName is greeted when the name query parameter is absent
const DefaultName = "world"

// MessageResponse is the body of GET /hello and GET /secret
type MessageResponse struct {
	Message string `json:"message"`
}

// Hello handles GET /hello?name=<name>
func Hello(logger zerolog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		name := nameOrDefault(c)
		logger.Info().Str("name", name).Msg("received GET /hello")
		c.JSON(consts.StatusOK, MessageResponse{
			Message: fmt.Sprintf("hello, %s!", name),
		})
	}
}

// nameOrDefault falls back to DefaultName only when the parameter is absent.
// An empty value (?name=) is kept as is.
func nameOrDefault(c *app.RequestContext) string {
	if name, ok := c.GetQuery("name"); ok {
		return name
	}
	return DefaultName
}
