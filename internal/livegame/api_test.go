// Live game API tests in JackStatz.

package livegame

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/sse"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/internal/test"
	"github.com/jackpalacios/jackstatz/pkg/middlewares"
)

func TestMain(m *testing.M) {
	// Load test.env, values already in the environment win
	_ = godotenv.Load("../../config/test.env")
	os.Exit(m.Run())
}

// Helper to build up a mock router instance serving the live game and its stream.
func setupMockRouter(t *testing.T, gameStore store.Store) (*gin.Engine, sse.Service) {
	t.Helper()
	logger := test.MockLogger()
	registry := sse.NewService(sse.Options{HeartbeatInterval: time.Minute}, logger)
	repo := sse.NewRepository(nil, "test")

	router := test.MockRouter()
	APIHandlers(router, NewService(gameStore, registry, logger), middlewares.RateLimitMiddleware(0, 1), logger)
	sse.APIHandlers(router, registry, repo, sse.SSEConnManagerMiddleware(registry, repo, logger), "*", logger)
	return router, registry
}

func memoryStore(t *testing.T) store.Store {
	t.Helper()
	defaults, err := store.LoadDefaults()
	require.NoError(t, err)
	gameStore := store.NewMemory(defaults)
	_, err = gameStore.CurrentLiveGame(ctx)
	require.NoError(t, err)
	return gameStore
}

func TestUpdatePlayerStatAPI(t *testing.T) {
	router, _ := setupMockRouter(t, memoryStore(t))
	cases := map[string]struct {
		body string
		want int
	}{
		"valid":              {`{"team":"team1","player_index":0,"stat_type":"points_2","value":1}`, http.StatusOK},
		"game id as string":  {`{"game_id":"1","team":"team1","player_index":1,"stat_type":"points_3","value":2}`, http.StatusOK},
		"game id as number":  {`{"game_id":1,"team":"team2","player_index":4,"stat_type":"steals","value":3}`, http.StatusOK},
		"null game id":       {`{"game_id":null,"team":"team2","player_index":4,"stat_type":"assists","value":3}`, http.StatusOK},
		"bad game id":        {`{"game_id":"abc","team":"team1","player_index":0,"stat_type":"points_2","value":1}`, http.StatusBadRequest},
		"unknown game":       {`{"game_id":77,"team":"team1","player_index":0,"stat_type":"points_2","value":1}`, http.StatusNotFound},
		"bad team":           {`{"team":"home","player_index":0,"stat_type":"points_2","value":1}`, http.StatusBadRequest},
		"bad stat":           {`{"team":"team1","player_index":0,"stat_type":"dunks","value":1}`, http.StatusBadRequest},
		"missing value":      {`{"team":"team1","player_index":0,"stat_type":"points_2"}`, http.StatusBadRequest},
		"fractional value":   {`{"team":"team1","player_index":0,"stat_type":"points_2","value":1.5}`, http.StatusBadRequest},
		"slot out of range":  {`{"team":"team1","player_index":9,"stat_type":"points_2","value":1}`, http.StatusBadRequest},
		"not json":           {`team=team1`, http.StatusBadRequest},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			w := test.ExecuteAPITest(t, router, test.RequestAPITest{
				Method:       http.MethodPost,
				Path:         "/update_player_stat",
				Body:         strings.NewReader(c.body),
				Headers:      test.JSONHeaders,
				WantResponse: []int{c.want},
			})
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, c.want == http.StatusOK, body["success"])
			if c.want != http.StatusOK {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestUpdatePlayerStatResponse(t *testing.T) {
	router, _ := setupMockRouter(t, memoryStore(t))
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/update_player_stat",
		Body:         test.JSONBody(t, map[string]interface{}{"team": "team2", "player_index": 2, "stat_type": "points_3", "value": 2}),
		Headers:      test.JSONHeaders,
		WantResponse: []int{http.StatusOK},
	})
	assert.JSONEq(t, `{"success":true,"total_points":6,"team_totals":{"team1":0,"team2":6}}`, w.Body.String())
}

func TestStaticStoreMutationFails(t *testing.T) {
	defaults, err := store.LoadDefaults()
	require.NoError(t, err)
	router, _ := setupMockRouter(t, store.NewStatic(defaults))

	for path, body := range map[string]string{
		"/update_player_stat": `{"team":"team1","player_index":0,"stat_type":"points_2","value":1}`,
		"/update_team_name":   `{"team":"team1","team_name":"Bulls"}`,
		"/update_player_name": `{"team":"team1","player_index":0,"player_name":"Jack"}`,
	} {
		w := test.ExecuteAPITest(t, router, test.RequestAPITest{
			Method:       http.MethodPost,
			Path:         path,
			Body:         strings.NewReader(body),
			Headers:      test.JSONHeaders,
			WantResponse: []int{http.StatusServiceUnavailable},
		})
		assert.JSONEq(t, `{"success":false,"error":"The datastore is currently unavailable."}`, w.Body.String())
	}

	// Reads keep working off the defaults
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/live-game",
		WantResponse: []int{http.StatusOK},
	})
	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, true, snap["read_only"])
}

// downStore fails every live game call the way a dropped database connection does.
type downStore struct {
	store.Store
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

func (downStore) CurrentLiveGame(context.Context) (entity.LiveGame, error) {
	return entity.LiveGame{}, errRefused
}

func (downStore) LiveGame(context.Context, int64) (entity.LiveGame, error) {
	return entity.LiveGame{}, errRefused
}

func (downStore) UpdatePlayerStat(context.Context, int64, string, int, string, int) error {
	return errRefused
}

func (downStore) UpdateTeamName(context.Context, int64, string, string) error {
	return errRefused
}

func TestDatabaseLostAfterStartup(t *testing.T) {
	defaults, err := store.LoadDefaults()
	require.NoError(t, err)
	gameStore := store.NewFallback(downStore{memoryStore(t)}, defaults, test.MockLogger())
	router, _ := setupMockRouter(t, gameStore)

	page := test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/live-game", WantResponse: []int{http.StatusOK}})
	assert.Contains(t, page.Body.String(), "TEAM 1")
	assert.Contains(t, page.Body.String(), "The datastore is unavailable")

	w := test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/api/live-game", WantResponse: []int{http.StatusOK}})
	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, true, snap["read_only"])

	for _, body := range []string{
		`{"team":"team1","player_index":0,"stat_type":"points_2","value":1}`,
		`{"game_id":1,"team":"team1","player_index":0,"stat_type":"points_2","value":1}`,
	} {
		w = test.ExecuteAPITest(t, router, test.RequestAPITest{
			Method:       http.MethodPost,
			Path:         "/update_player_stat",
			Body:         strings.NewReader(body),
			Headers:      test.JSONHeaders,
			WantResponse: []int{http.StatusServiceUnavailable},
		})
		assert.JSONEq(t, `{"success":false,"error":"The datastore is currently unavailable."}`, w.Body.String())
	}
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/update_team_name",
		Body:         strings.NewReader(`{"game_id":1,"team":"team1","team_name":"Bulls"}`),
		Headers:      test.JSONHeaders,
		WantResponse: []int{http.StatusServiceUnavailable},
	})
	assert.False(t, gameStore.Available())
}

func TestNameUpdateAPI(t *testing.T) {
	router, _ := setupMockRouter(t, memoryStore(t))
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/update_team_name",
		Body:         strings.NewReader(`{"team":"team1","team_name":"Bulls"}`),
		Headers:      test.JSONHeaders,
		WantResponse: []int{http.StatusOK},
	})
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/update_player_name",
		Body:         strings.NewReader(`{"team":"team2","player_index":1,"player_name":"Jack"}`),
		Headers:      test.JSONHeaders,
		WantResponse: []int{http.StatusOK},
	})
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/update_player_name",
		Body:         strings.NewReader(`{"team":"team2","player_name":"Jack"}`),
		Headers:      test.JSONHeaders,
		WantResponse: []int{http.StatusBadRequest},
	})

	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/live-game",
		WantResponse: []int{http.StatusOK},
	})
	var snap struct {
		Team1      entity.TeamSnapshot `json:"team1"`
		Team2      entity.TeamSnapshot `json:"team2"`
		TeamTotals entity.TeamTotals   `json:"team_totals"`
		ReadOnly   bool                `json:"read_only"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "Bulls", snap.Team1.Name)
	assert.Equal(t, "Jack", snap.Team2.Players[1].Name)
	assert.False(t, snap.ReadOnly)

	page := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/live-game",
		WantResponse: []int{http.StatusOK},
	})
	assert.Contains(t, page.Body.String(), "Bulls")
}

func TestRateLimitedMutations(t *testing.T) {
	logger := test.MockLogger()
	registry := sse.NewService(sse.Options{}, logger)
	router := test.MockRouter()
	APIHandlers(router, NewService(memoryStore(t), registry, logger), middlewares.RateLimitMiddleware(0.001, 1), logger)

	body := `{"team":"team1","player_index":0,"stat_type":"rebounds","value":1}`
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost, Path: "/update_player_stat", Body: strings.NewReader(body),
		Headers: test.JSONHeaders, WantResponse: []int{http.StatusOK},
	})
	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost, Path: "/update_player_stat", Body: strings.NewReader(body),
		Headers: test.JSONHeaders, WantResponse: []int{http.StatusTooManyRequests},
	})
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
		data = strings.TrimPrefix(line, "data: ")
	}
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &out))
	return out
}

func TestViewerSeesHandshakeThenStatUpdate(t *testing.T) {
	router, registry := setupMockRouter(t, memoryStore(t))
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readFrame(t, reader)["type"])
	require.Equal(t, 1, registry.Count())

	post, err := http.Post(srv.URL+"/update_player_stat", "application/json",
		strings.NewReader(`{"team":"team1","player_index":0,"stat_type":"points_2","value":1}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	update := readFrame(t, reader)
	assert.Equal(t, "stat_update", update["type"])
	assert.Equal(t, map[string]interface{}{
		"team":         "team1",
		"player_index": float64(0),
		"stat_type":    "points_2",
		"value":        float64(1),
		"total_points": float64(2),
		"team_totals":  map[string]interface{}{"team1": float64(2), "team2": float64(0)},
	}, update["data"])
}
