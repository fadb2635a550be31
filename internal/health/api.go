// Liveness and datastore tier of a running JackStatz.

package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

type status struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Store     string `json:"store"`
	Available bool   `json:"available"`
}

// Registers GET /healthz onto the gin server.
// The process is healthy while it serves, a read-only datastore is reported but not failed on.
func APIHandlers(router *gin.Engine, version string, datastore store.Store, logger log.Logger) {
	router.GET("/healthz", func(gctx *gin.Context) {
		res := status{Status: "ok", Version: version, Store: datastore.Tier(), Available: datastore.Available()}
		if !res.Available {
			res.Status = "degraded"
		}
		gctx.JSON(http.StatusOK, res)
	})
}
