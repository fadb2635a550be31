package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

// This middleware will be used to populate every incoming request's context with an Unique CorrelationID.
// Which will help to debug an issue which happened between a chain of events during handling a request.
// An incoming X-Correlation-ID is kept so a scoreboard client can tie its own logs to ours.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		correlationID := gctx.GetHeader("X-Correlation-ID")
		if _, err := xid.FromString(correlationID); err != nil {
			correlationID = xid.New().String()
		}
		// Setting the correlationID in request's context
		gctx.Set("correlation_id", correlationID)
		// Setting the correlationID to response header
		gctx.Writer.Header().Set("X-Correlation-ID", correlationID)
		gctx.Next()
	}
}
