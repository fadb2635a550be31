// Server Side Events (SSE) middleware used to populate request context with the viewer's subscription.

package sse

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Subscribes the viewer for the lifetime of the request.
// Unsubscribing happens here on the way out, however the stream loop ended.
func SSEConnManagerMiddleware(service Service, repo Repository, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		sub, err := service.Subscribe(gctx)
		if err != nil {
			logger.WithCtx(gctx).Warn().Err(err).Msg("Refusing live game viewer")
			gctx.Writer.Header().Del("Content-Type")
			gctx.AbortWithStatusJSON(http.StatusServiceUnavailable, errors.ServiceUnavailable("Live updates are not available right now."))
			return
		}
		// Presence is best effort, errors are already logged by the repository
		_ = repo.AddClient(gctx, logger, sub.ID)

		defer func() {
			// The request context is cancelled by now, cleanup must still reach Redis
			ctx := context.WithoutCancel(gctx)
			service.Unsubscribe(ctx, sub)
			_ = repo.RemoveClient(ctx, logger, sub.ID)
		}()

		gctx.Set("SSE", sub)
		gctx.Next()
	}
}
