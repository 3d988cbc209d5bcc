package routes

import (
	"context"

	"github.com/block/hello-server-go/internal/config"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Secret handles GET /secret. The configured secret is returned verbatim and
// the route is intentionally unauthenticated.
func Secret(cfg *config.Config) app.HandlerFunc {
	message := "secret = " + cfg.SecretText()
	return func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, MessageResponse{Message: message})
	}
}
