// SSE API tests in JackStatz.

package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/test"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Helper to build up a mock router instance serving the live game stream.
func setupMockRouter(service Service) *gin.Engine {
	logger := test.MockLogger()
	repo := NewRepository(nil, "test")
	router := test.MockRouter()
	APIHandlers(router, service, repo, SSEConnManagerMiddleware(service, repo, logger), "*", logger)
	return router
}

// Reads one SSE frame and decodes its data line.
func readFrame(t *testing.T, r *bufio.Reader) map[string]interface{} {
	t.Helper()
	var data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		require.True(t, strings.HasPrefix(line, "data: "), line)
		data = strings.TrimPrefix(line, "data: ")
	}
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &out))
	return out
}

func openStream(t *testing.T, url string) (*http.Response, *bufio.Reader) {
	t.Helper()
	resp, err := http.Get(url + "/events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp, bufio.NewReader(resp.Body)
}

func TestStreamHandshakeThenStatUpdate(t *testing.T) {
	service := newRegistry(Options{HeartbeatInterval: time.Minute})
	srv := httptest.NewServer(setupMockRouter(service))
	defer srv.Close()

	resp, reader := openStream(t, srv.URL)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	handshake := readFrame(t, reader)
	assert.Equal(t, "connected", handshake["type"])
	assert.Equal(t, "SSE connection established", handshake["message"])
	assert.Equal(t, 1, service.Count())

	service.Broadcast(ctx, NewEvent(entity.EventStatUpdate, entity.StatUpdateData{
		Team:        entity.Team1,
		PlayerIndex: 0,
		StatType:    entity.StatPoints2,
		Value:       1,
		TotalPoints: 2,
		TeamTotals:  entity.TeamTotals{Team1: 2, Team2: 0},
	}))

	update := readFrame(t, reader)
	assert.Equal(t, "stat_update", update["type"])
	data := update["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_points"])
	assert.Equal(t, map[string]interface{}{"team1": float64(2), "team2": float64(0)}, data["team_totals"])
}

func TestStreamSendsHeartbeatWhenIdle(t *testing.T) {
	service := newRegistry(Options{HeartbeatInterval: 30 * time.Millisecond})
	srv := httptest.NewServer(setupMockRouter(service))
	defer srv.Close()

	resp, reader := openStream(t, srv.URL)
	defer resp.Body.Close()

	assert.Equal(t, "connected", readFrame(t, reader)["type"])
	assert.Equal(t, map[string]interface{}{"type": "heartbeat"}, readFrame(t, reader))
	assert.Equal(t, map[string]interface{}{"type": "heartbeat"}, readFrame(t, reader))

	// A real event still preempts the next heartbeat
	service.Broadcast(ctx, NewEvent(entity.EventTeamNameUpdate, entity.TeamNameData{Team: entity.Team2, TeamName: "Hawks"}))
	for {
		frame := readFrame(t, reader)
		if frame["type"] == "heartbeat" {
			continue
		}
		assert.Equal(t, "team_name_update", frame["type"])
		assert.Equal(t, map[string]interface{}{"team": "team2", "team_name": "Hawks"}, frame["data"])
		break
	}
}

func TestStreamDisconnectUnsubscribes(t *testing.T) {
	service := newRegistry(Options{HeartbeatInterval: 20 * time.Millisecond})
	srv := httptest.NewServer(setupMockRouter(service))
	defer srv.Close()

	resp, reader := openStream(t, srv.URL)
	readFrame(t, reader)
	assert.Equal(t, 1, service.Count())

	resp.Body.Close()
	assert.Eventually(t, func() bool { return service.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRegistryCloseEndsStream(t *testing.T) {
	service := newRegistry(Options{HeartbeatInterval: time.Minute})
	srv := httptest.NewServer(setupMockRouter(service))
	defer srv.Close()

	resp, reader := openStream(t, srv.URL)
	defer resp.Body.Close()
	readFrame(t, reader)

	require.NoError(t, service.Close(ctx))
	_, err := io.ReadAll(reader)
	assert.NoError(t, err)

	// New viewers are refused once the registry is closed
	test.ExecuteAPITest(t, setupMockRouter(service), test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/events",
		WantResponse: []int{http.StatusServiceUnavailable},
	})
}

func TestStatsReportsRegistrySize(t *testing.T) {
	service := newRegistry(Options{})
	router := setupMockRouter(service)
	_, _ = service.Subscribe(ctx)
	_, _ = service.Subscribe(ctx)

	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/sse/stats",
		WantResponse: []int{http.StatusOK},
	})
	assert.JSONEq(t, `{"subscribers":2}`, w.Body.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestFailedFrameWriteIsLogged(t *testing.T) {
	var out bytes.Buffer
	logger := log.NewWithWriter("test", &out)
	sub := &Subscriber{ID: "viewer-1", queue: NewQueue(0)}

	assert.False(t, sendFrame(ctx, brokenWriter{}, sub, heartbeatFrame, logger))
	assert.Contains(t, out.String(), "Couldn't write to live game viewer")
	assert.Contains(t, out.String(), "broken pipe")
	assert.Contains(t, out.String(), "viewer-1")

	out.Reset()
	var frame bytes.Buffer
	assert.True(t, sendFrame(ctx, &frame, sub, heartbeatFrame, logger))
	assert.Equal(t, "data: {\"type\":\"heartbeat\"}\n\n", frame.String())
	assert.Empty(t, out.String())
}
