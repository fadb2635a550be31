package globalcontext

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jackpalacios/jackstatz/pkg/log"
)

func TestUniqueIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UniqueIDMiddleware(log.NewWithWriter("test", io.Discard)))
	router.GET("/", func(gctx *gin.Context) { gctx.String(http.StatusOK, gctx.GetString("ReqID")) })

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.False(t, seen[w.Body.String()])
		seen[w.Body.String()] = true
	}
}
