// Exposes Jack's game log and stats in JackStatz.

package games

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/views"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Registers all of the REST API handlers related to internal package games onto the gin server.
func APIHandlers(router *gin.Engine, service Service, logger log.Logger) {
	router.GET("/jack", statsPage(service, logger))
	router.POST("/add_game", addGame(service, logger))
	router.GET("/api/games", listGames(service, logger))
}

// Renders the stats page, with an error banner when err is set.
func renderStats(gctx *gin.Context, service Service, err error) {
	status, msg := http.StatusOK, ""
	if err != nil {
		var failure errors.MutationFailure
		status, failure = errors.NewMutationFailure(err)
		msg = failure.Error
	}
	games, stats, readOnly, logerr := service.gamelog(gctx)
	if logerr != nil {
		resp := errors.Wrap(logerr)
		gctx.JSON(resp.Status, resp)
		return
	}
	views.Render(gctx, status, views.JackStats(stats, games, readOnly, msg))
}

func statsPage(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		renderStats(gctx, service, nil)
	}
}

// addGame records the posted box score and renders the refreshed stats.
func addGame(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var form entity.CompletedGameForm
		if binderr := gctx.ShouldBind(&form); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with CompletedGameForm struct.")
			renderStats(gctx, service, errors.BadRequest("Malformed form."))
			return
		}
		_, err := service.addgame(gctx, form)
		renderStats(gctx, service, err)
	}
}

type gameLog struct {
	Stats entity.PlayerStats     `json:"stats"`
	Games []entity.CompletedGame `json:"games"`
}

func listGames(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		games, stats, _, err := service.gamelog(gctx)
		if err != nil {
			resp := errors.Wrap(err)
			gctx.JSON(resp.Status, resp)
			return
		}
		gctx.JSON(http.StatusOK, gameLog{Stats: stats, Games: games})
	}
}
