package buddy

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/test"
)

func setupMockRouter(t *testing.T, static bool) *gin.Engine {
	router := test.MockRouter()
	APIHandlers(router, newService(t, static), test.MockLogger())
	return router
}

func TestRosterPages(t *testing.T) {
	router := setupMockRouter(t, false)
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/", WantResponse: []int{http.StatusOK}})
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Jordan")

	w = test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodGet, Path: "/search?sport=soccer&age_range=8-12", WantResponse: []int{http.StatusOK},
	})
	assert.Contains(t, w.Body.String(), "Sam")
	assert.NotContains(t, w.Body.String(), "Jordan")

	w = test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodGet, Path: "/search?age_range=young", WantResponse: []int{http.StatusBadRequest},
	})
	assert.Contains(t, w.Body.String(), "age_range must look like 8-12")
}

func TestAddBuddyAPI(t *testing.T) {
	router := setupMockRouter(t, false)
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method: http.MethodPost,
		Path:   "/add_buddy",
		Body: test.FormBody(map[string]string{
			"name": "Riley", "age": "9", "sport": "swimming", "location": "Lakeside",
			"availability": "Sundays", "skill_level": "beginner",
		}),
		Headers:      test.FormHeaders,
		WantResponse: []int{http.StatusOK},
	})
	assert.Contains(t, w.Body.String(), "Riley")

	test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/add_buddy",
		Body:         test.FormBody(map[string]string{"name": "Casey", "age": "old"}),
		Headers:      test.FormHeaders,
		WantResponse: []int{http.StatusBadRequest},
	})

	w = test.ExecuteAPITest(t, router, test.RequestAPITest{Method: http.MethodGet, Path: "/api/buddies", WantResponse: []int{http.StatusOK}})
	var buddies []entity.Buddy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &buddies))
	require.Len(t, buddies, 4)
	assert.Equal(t, "Riley", buddies[3].Name)
	assert.Equal(t, "Sundays", buddies[3].Availability)
}

func TestAddBuddyWithoutStore(t *testing.T) {
	router := setupMockRouter(t, true)
	w := test.ExecuteAPITest(t, router, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/add_buddy",
		Body:         test.FormBody(map[string]string{"name": "Riley", "age": "9", "sport": "swimming", "location": "Lakeside"}),
		Headers:      test.FormHeaders,
		WantResponse: []int{http.StatusServiceUnavailable},
	})
	assert.Contains(t, w.Body.String(), "Sign ups are closed")
}
