package games

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/internal/test"
)

func setupMockRouter(t *testing.T, static bool) *gin.Engine {
	t.Helper()
	defaults, err := store.LoadDefaults()
	require.NoError(t, err)
	gameStore := store.NewMemory(defaults)
	if static {
		gameStore = store.NewStatic(defaults)
	}
	router := test.MockRouter()
	APIHandlers(router, NewService(gameStore, test.MockLogger()), test.MockLogger())
	return router
}

func boxScore(overrides map[string]string) map[string]string {
	form := map[string]string{
		"date": "2024-01-20", "opponent": "Eagles", "result": "win", "points": "18",
		"rebounds": "6", "assists": "4", "steals": "2", "blocks": "1", "turnovers": "3", "minutes": "28",
	}
	for k, v := range overrides {
		form[k] = v
	}
	return form
}

func TestAddGameAPI(t *testing.T) {
	router := setupMockRouter(t, false)
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/jack", WantResponse: []int{http.StatusOK}})
	assert.Contains(t, w.Body.String(), "No games recorded yet.")

	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost, Path: "/add_game", Body: test.FormBody(boxScore(nil)),
		Headers: test.FormHeaders, WantResponse: []int{http.StatusOK},
	})
	w = test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost, Path: "/add_game",
		Body:    test.FormBody(boxScore(map[string]string{"opponent": "Hawks", "result": "loss", "points": "", "blocks": "0"})),
		Headers: test.FormHeaders, WantResponse: []int{http.StatusOK},
	})
	assert.Contains(t, w.Body.String(), "Hawks")

	w = test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/api/games", WantResponse: []int{http.StatusOK}})
	var log gameLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	require.Len(t, log.Games, 2)
	assert.Equal(t, 0, log.Games[1].Points)
	assert.Equal(t, 2, log.Stats.GamesPlayed)
	assert.Equal(t, 50.0, log.Stats.WinPercentage)
	assert.Equal(t, 9.0, log.Stats.AvgPoints)
	assert.Equal(t, 0.5, log.Stats.AvgBlocks)
}

func TestAddGameRejectsBadForms(t *testing.T) {
	router := setupMockRouter(t, false)
	for name, overrides := range map[string]map[string]string{
		"bad date":      {"date": "20/01/2024"},
		"no opponent":   {"opponent": ""},
		"bad result":    {"result": "tie"},
		"text points":   {"points": "lots"},
		"negative mins": {"minutes": "-4"},
	} {
		t.Run(name, func(t *testing.T) {
			test.ExecuteAPITest(t, router, test.RequestAPITest{
				Method: http.MethodPost, Path: "/add_game", Body: test.FormBody(boxScore(overrides)),
				Headers: test.FormHeaders, WantResponse: []int{http.StatusBadRequest},
			})
		})
	}
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/api/games", WantResponse: []int{http.StatusOK}})
	assert.JSONEq(t, `{"stats":{"games_played":0,"wins":0,"win_percentage":0,"avg_points":0,"avg_rebounds":0,"avg_assists":0,"avg_steals":0,"avg_blocks":0},"games":[]}`, w.Body.String())
}

func TestAddGameWithoutStore(t *testing.T) {
	router := setupMockRouter(t, true)
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost, Path: "/add_game", Body: test.FormBody(boxScore(nil)),
		Headers: test.FormHeaders, WantResponse: []int{http.StatusServiceUnavailable},
	})
	assert.Contains(t, w.Body.String(), "Games can&#39;t be recorded")
}
