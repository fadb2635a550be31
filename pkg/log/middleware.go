// This middleware is used to integrate zerolog extension created in logger.go into gin server.

package log

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Forces gin to log every request through zerolog instead of its default writer.
// Long lived event streams are logged once, when the client goes away.
func LoggerGinExtension(logger Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now() // Start timer
		path := gctx.Request.URL.Path
		if raw := gctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		// Process request
		gctx.Next()

		latency := time.Since(start)
		if latency > time.Minute {
			latency = latency.Truncate(time.Second)
		}
		status := gctx.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.WithCtx(gctx).Error()
		case status >= 400:
			event = logger.WithCtx(gctx).Warn()
		default:
			event = logger.WithCtx(gctx).Info()
		}
		event.
			Str("client_ip", gctx.ClientIP()).
			Str("method", gctx.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Int("body_size", gctx.Writer.Size()).
			Str("errors", gctx.Errors.ByType(gin.ErrorTypePrivate).String()).
			Msg("request served")
	}
}
