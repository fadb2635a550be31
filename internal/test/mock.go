// Mock methods required in JackStatz tests are all here.

package test

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/middlewares"
)

// Returns a fresh gin router in test mode, every test gets its own routes.
func MockRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.TestMode
	}
	gin.SetMode(ginMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.CORSMiddleware("*")) // CORS middleware which allows request from all origin
	return router
}

// Logger which throws everything away, keeps test output readable.
func MockLogger() log.Logger {
	if os.Getenv("TEST_VERBOSE_LOG") != "" {
		return log.New("test")
	}
	return log.NewWithWriter("test", io.Discard)
}

// Fixed clock reading used wherever a test needs a stable timestamp.
var FixedTime = time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC)
