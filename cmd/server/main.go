// The main file of JackStatz.

package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/config"
	"github.com/jackpalacios/jackstatz/internal/metrics"
	"github.com/jackpalacios/jackstatz/internal/sse"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/cleanup"
	"github.com/jackpalacios/jackstatz/pkg/db"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

func main() {
	cfg, cfgerr := config.LoadDevConfig()
	if cfgerr != nil {
		log.New("unknown").Fatal().Err(cfgerr).Msg("Couldn't load configuration.")
	}
	logger := log.New(cfg.Version)
	ctx := context.Background()

	logger.Info().Msgf("Welcome to JackStatz: v%s", cfg.Version)
	logger.Info().Msgf("JackStatz Environment: %s", cfg.Env)

	// This is the preferred mode used by gin server in DEV environment.
	if strings.EqualFold(cfg.Env, "DEV") {
		gin.SetMode(gin.DebugMode)
	} else if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	gameStore, storeerr := store.Open(ctx, logger, store.Options{Backend: cfg.StoreBackend, DatabaseURL: cfg.DatabaseURL})
	if storeerr != nil {
		logger.Fatal().Err(storeerr).Msg("Couldn't open the game store.")
	}
	logger.Info().Str("tier", gameStore.Tier()).Bool("available", gameStore.Available()).Msg("Game store ready.")

	// Redis only backs the viewer presence set, it's fine to run without it.
	var redis *db.RedisDB
	if cfg.RedisEnabled() {
		conn, dberr := db.NewDbConnection(ctx, logger, db.RedisOptions{
			Addr: cfg.RedisAddr, Port: cfg.RedisPort, Password: cfg.RedisPassword, DB: cfg.RedisDB,
		})
		if dberr == nil && conn.CheckDbConnection(ctx, logger) == nil {
			redis = conn
		} else if conn != nil {
			_ = conn.CloseDbConnection(ctx)
		}
	}
	presence := sse.NewRepository(redis, cfg.InstanceID)
	// Presence left over from a previous run is stale
	if clearerr := presence.Clear(ctx, logger); clearerr != nil {
		logger.Warn().Err(clearerr).Msg("Couldn't clear the viewer presence set.")
	}

	collector := metrics.NewService()
	registry := sse.NewService(sse.Options{
		HeartbeatInterval: cfg.HeartbeatInterval,
		QueueLimit:        cfg.QueueLimit,
		Observer:          collector,
	}, logger)

	// Initializing the gin server.
	server := gin.New()
	server.Use(gin.Recovery())
	Router(server, cfg, dependencies{
		store:    gameStore,
		registry: registry,
		presence: presence,
		metrics:  collector,
		logger:   logger,
	})

	// Running the server with defined addr and port.
	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server,
	}

	// ListenAndServe is a blocking operation, putting it a goroutine
	go func() {
		logger.Info().Msgf("JackStatz service running at: %s", cfg.ListenAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Error in ListenAndServe()")
		}
	}()

	// Graceful shutdown of JackStatz server triggered due to system interruptions.
	// Streams are ended first so the server has no long lived connections left to wait on.
	wait := cleanup.GracefulShutdown(ctx, logger, cfg.ShutdownTimeout,
		map[string]cleanup.Operation{
			"SSE-registry": registry.Close,
		},
		map[string]cleanup.Operation{
			"Gin": srv.Shutdown,
		},
		map[string]cleanup.Operation{
			"Game-store": gameStore.Close,
			"Redis-server": func(ctx context.Context) error {
				if redis == nil {
					return nil
				}
				return redis.CloseDbConnection(ctx)
			},
		},
	)
	<-wait
}
