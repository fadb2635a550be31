// List of all REST API endpoints being used by JackStatz can be found here.

package main

import (
	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/buddy"
	"github.com/jackpalacios/jackstatz/internal/config"
	"github.com/jackpalacios/jackstatz/internal/games"
	"github.com/jackpalacios/jackstatz/internal/health"
	"github.com/jackpalacios/jackstatz/internal/livegame"
	"github.com/jackpalacios/jackstatz/internal/metrics"
	"github.com/jackpalacios/jackstatz/internal/sse"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/globalcontext"
	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/middlewares"
)

// Everything the routes need, built once in main.
type dependencies struct {
	store    store.Store
	registry sse.Service
	presence sse.Repository
	metrics  metrics.Service
	logger   log.Logger
}

func Router(router *gin.Engine, cfg config.Config, deps dependencies) {
	router.Use(globalcontext.UniqueIDMiddleware(deps.logger))
	router.Use(middlewares.CorrelationMiddleware())
	// Forcing gin to use custom Logger instead of the default one.
	router.Use(log.LoggerGinExtension(deps.logger))
	router.Use(metrics.Middleware(deps.metrics))
	router.Use(middlewares.CORSMiddleware(cfg.CORSOrigin))

	sseConn := sse.SSEConnManagerMiddleware(deps.registry, deps.presence, deps.logger)
	sse.APIHandlers(router, deps.registry, deps.presence, sseConn, cfg.CORSOrigin, deps.logger)

	throttle := middlewares.RateLimitMiddleware(cfg.MutationRateLimit, cfg.MutationRateBurst)
	livegame.APIHandlers(router, livegame.NewService(deps.store, deps.registry, deps.logger), throttle, deps.logger)
	buddy.APIHandlers(router, buddy.NewService(deps.store, deps.logger), deps.logger)
	games.APIHandlers(router, games.NewService(deps.store, deps.logger), deps.logger)
	health.APIHandlers(router, cfg.Version, deps.store, deps.logger)
	metrics.APIHandlers(router, deps.metrics)
}
