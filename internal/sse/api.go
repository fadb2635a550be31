// Exposes all of the REST APIs related to SSE in JackStatz.

package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/middlewares"
)

// Registers all of the REST API handlers related to internal package sse onto the gin server.
func APIHandlers(router *gin.Engine, service Service, repo Repository, sseConn gin.HandlerFunc, origin string, logger log.Logger) {
	router.GET("/events", middlewares.SSEMiddleware(origin), sseConn, streamhandler(service, logger))
	router.GET("/api/sse/stats", statshandler(service, repo, logger))
}

var (
	connectedFrame = mustMarshal(ConnectedEvent())
	heartbeatFrame = mustMarshal(HeartbeatEvent())
)

func mustMarshal(event entity.BroadcastEvent) []byte {
	b, err := json.Marshal(event)
	if err != nil {
		panic(err)
	}
	return b
}

// Writes one SSE frame.
func writeFrame(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// Writes a frame to a viewer, false once the viewer can't be written to anymore.
func sendFrame(ctx context.Context, w io.Writer, sub *Subscriber, payload []byte, logger log.Logger) bool {
	if err := writeFrame(w, payload); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("subscriber", sub.ID).Msg("Couldn't write to live game viewer")
		return false
	}
	return true
}

// Runs the stream loop of one viewer: the handshake first, then queued events,
// with a heartbeat whenever nothing arrives within the heartbeat interval.
func streamhandler(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		sub, ok := gctx.Value("SSE").(*Subscriber)
		if !ok {
			// Type assertion error
			logger.WithCtx(gctx).Error().Msg("Type assertion error in sse.streamhandler")
			gctx.Status(http.StatusInternalServerError)
			return
		}
		gctx.Status(http.StatusOK)

		ctx := gctx.Request.Context()
		interval := service.HeartbeatInterval()
		handshake := true
		gctx.Stream(func(w io.Writer) bool {
			if handshake {
				handshake = false
				return sendFrame(gctx, w, sub, connectedFrame, logger)
			}
			payload, err := sub.Next(ctx, interval)
			switch {
			case err == nil:
				return sendFrame(gctx, w, sub, payload, logger)
			case errors.Is(err, ErrWaitTimeout):
				return sendFrame(gctx, w, sub, heartbeatFrame, logger)
			case errors.Is(err, ErrQueueClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return false
			default:
				logger.WithCtx(gctx).Error().Err(err).Msg("Unexpected error while waiting for live game events")
				return false
			}
		})
		logger.WithCtx(gctx).Info().Str("subscriber", sub.ID).Msg("Closing SSE connection")
	}
}

type statsResponse struct {
	entity.SSEStats
	Presence *int64 `json:"presence,omitempty"`
}

func statshandler(service Service, repo Repository, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		resp := statsResponse{SSEStats: entity.SSEStats{Subscribers: service.Count()}}
		if count, enabled, err := repo.CountClients(gctx, logger); enabled && err == nil {
			resp.Presence = &count
		}
		gctx.JSON(http.StatusOK, resp)
	}
}
