// Graceful shutdown tests in JackStatz.

package cleanup

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackpalacios/jackstatz/internal/sse"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/internal/test"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Global context
var ctx = context.Background()

type harness struct {
	srv      *http.Server
	addr     string
	registry sse.Service
	store    store.Store
	logger   log.Logger
}

// Runs a server with a live event stream on a random local port.
func startServer(t *testing.T) harness {
	t.Helper()
	logger := test.MockLogger()
	registry := sse.NewService(sse.Options{HeartbeatInterval: time.Minute}, logger)
	repo := sse.NewRepository(nil, "test")
	defaults, err := store.LoadDefaults()
	require.NoError(t, err)

	router := test.MockRouter()
	router.GET("/api", func(gctx *gin.Context) { gctx.Status(http.StatusOK) })
	sse.APIHandlers(router, registry, repo, sse.SSEConnManagerMiddleware(registry, repo, logger), "*", logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: router}
	go func() {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Error in Serve()")
		}
	}()
	return harness{srv: srv, addr: "http://" + ln.Addr().String(), registry: registry, store: store.NewMemory(defaults), logger: logger}
}

func shutdownWith(t *testing.T, sig syscall.Signal) {
	h := startServer(t)

	// an open viewer must not hold the shutdown up
	resp, err := http.Get(h.addr + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	_, err = bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, 1, h.registry.Count())

	var order []string
	var storeClosed atomic.Bool
	wait := GracefulShutdown(ctx, h.logger, 5*time.Second,
		map[string]Operation{"SSE-registry": func(ctx context.Context) error {
			order = append(order, "registry")
			return h.registry.Close(ctx)
		}},
		map[string]Operation{"Gin": func(ctx context.Context) error {
			order = append(order, "gin")
			return h.srv.Shutdown(ctx)
		}},
		map[string]Operation{"Store": func(ctx context.Context) error {
			order = append(order, "store")
			storeClosed.Store(true)
			return h.store.Close(ctx)
		}},
	)
	require.NoError(t, syscall.Kill(syscall.Getpid(), sig))

	select {
	case <-wait:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}

	assert.Equal(t, []string{"registry", "gin", "store"}, order)
	assert.True(t, storeClosed.Load())
	_, testerr := http.Get(h.addr + "/api")
	assert.Error(t, testerr)
}

func TestGracefulShutdownSIGINT(t *testing.T) {
	shutdownWith(t, syscall.SIGINT)
}

func TestGracefulShutdownSIGTERM(t *testing.T) {
	shutdownWith(t, syscall.SIGTERM)
}
