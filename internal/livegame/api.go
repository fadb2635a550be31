// Exposes the live game scoreboard and its mutation endpoints in JackStatz.

package livegame

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/views"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Registers all of the REST API handlers related to internal package livegame onto the gin server.
// throttle guards the mutation endpoints only.
func APIHandlers(router *gin.Engine, service Service, throttle gin.HandlerFunc, logger log.Logger) {
	router.GET("/live-game", liveGamePage(service, logger))
	router.GET("/api/live-game", liveGameSnapshot(service, logger))

	mutations := router.Group("/", throttle)
	{
		mutations.POST("/update_player_stat", updatePlayerStat(service, logger))
		mutations.POST("/update_team_name", updateTeamName(service, logger))
		mutations.POST("/update_player_name", updatePlayerName(service, logger))
	}
}

// Writes the {success:false, error} body every mutation endpoint fails with.
func mutationFailure(gctx *gin.Context, err error) {
	status, body := errors.NewMutationFailure(err)
	gctx.JSON(status, body)
}

func liveGamePage(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		game, readOnly, err := service.currentgame(gctx)
		if err != nil {
			resp := errors.Wrap(err)
			gctx.JSON(resp.Status, resp)
			return
		}
		views.Render(gctx, http.StatusOK, views.LiveGame(game, readOnly))
	}
}

type snapshot struct {
	entity.LiveGame
	TeamTotals entity.TeamTotals `json:"team_totals"`
	ReadOnly   bool              `json:"read_only"`
}

func liveGameSnapshot(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		game, readOnly, err := service.currentgame(gctx)
		if err != nil {
			resp := errors.Wrap(err)
			gctx.JSON(resp.Status, resp)
			return
		}
		gctx.JSON(http.StatusOK, snapshot{LiveGame: game, TeamTotals: game.Totals(), ReadOnly: readOnly})
	}
}

// updatePlayerStat returns a handler which sets one stat of one player.
func updatePlayerStat(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req entity.StatUpdateRequest
		// Serialize received data into StatUpdateRequest struct
		if binderr := gctx.ShouldBindJSON(&req); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with StatUpdateRequest struct.")
			mutationFailure(gctx, errors.BadRequest("Malformed request body."))
			return
		}
		res, err := service.updateplayerstat(gctx, req)
		if err != nil {
			mutationFailure(gctx, err)
			return
		}
		gctx.JSON(http.StatusOK, res)
	}
}

// updateTeamName returns a handler which renames a team.
func updateTeamName(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req entity.TeamNameUpdateRequest
		if binderr := gctx.ShouldBindJSON(&req); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with TeamNameUpdateRequest struct.")
			mutationFailure(gctx, errors.BadRequest("Malformed request body."))
			return
		}
		res, err := service.updateteamname(gctx, req)
		if err != nil {
			mutationFailure(gctx, err)
			return
		}
		gctx.JSON(http.StatusOK, res)
	}
}

// updatePlayerName returns a handler which renames a player slot.
func updatePlayerName(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req entity.PlayerNameUpdateRequest
		if binderr := gctx.ShouldBindJSON(&req); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with PlayerNameUpdateRequest struct.")
			mutationFailure(gctx, errors.BadRequest("Malformed request body."))
			return
		}
		res, err := service.updateplayername(gctx, req)
		if err != nil {
			mutationFailure(gctx, err)
			return
		}
		gctx.JSON(http.StatusOK, res)
	}
}
