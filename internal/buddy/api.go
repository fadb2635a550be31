// Exposes the sports buddy roster of JackStatz.

package buddy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/views"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Registers all of the REST API handlers related to internal package buddy onto the gin server.
func APIHandlers(router *gin.Engine, service Service, logger log.Logger) {
	router.GET("/", roster(service, logger))
	router.GET("/search", search(service, logger))
	router.POST("/add_buddy", addBuddy(service, logger))
	router.GET("/api/buddies", listBuddies(service, logger))
}

// Renders the roster page with an error banner when err is set.
func renderRoster(gctx *gin.Context, service Service, filter entity.BuddyFilter, err error) {
	status, msg := http.StatusOK, ""
	if err != nil {
		var failure errors.MutationFailure
		status, failure = errors.NewMutationFailure(err)
		msg = failure.Error
	}
	buddies, readOnly, listerr := service.listbuddies(gctx)
	if listerr != nil {
		resp := errors.Wrap(listerr)
		gctx.JSON(resp.Status, resp)
		return
	}
	views.Render(gctx, status, views.BuddyList(buddies, filter, readOnly, msg))
}

func roster(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		renderRoster(gctx, service, entity.BuddyFilter{}, nil)
	}
}

func search(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var filter entity.BuddyFilter
		if binderr := gctx.ShouldBindQuery(&filter); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with BuddyFilter struct.")
			renderRoster(gctx, service, filter, errors.BadRequest("Malformed search query."))
			return
		}
		buddies, readOnly, err := service.searchbuddies(gctx, filter)
		if err != nil {
			renderRoster(gctx, service, filter, err)
			return
		}
		views.Render(gctx, http.StatusOK, views.BuddyList(buddies, filter, readOnly, ""))
	}
}

// addBuddy saves the posted form and renders the updated roster.
func addBuddy(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var form entity.BuddyForm
		if binderr := gctx.ShouldBind(&form); binderr != nil {
			logger.WithCtx(gctx).Warn().Err(binderr).Msg("Binding error occured with BuddyForm struct.")
			renderRoster(gctx, service, entity.BuddyFilter{}, errors.BadRequest("Malformed form."))
			return
		}
		if _, err := service.addbuddy(gctx, form); err != nil {
			renderRoster(gctx, service, entity.BuddyFilter{}, err)
			return
		}
		renderRoster(gctx, service, entity.BuddyFilter{}, nil)
	}
}

func listBuddies(service Service, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		buddies, _, err := service.listbuddies(gctx)
		if err != nil {
			resp := errors.Wrap(err)
			gctx.JSON(resp.Status, resp)
			return
		}
		gctx.JSON(http.StatusOK, buddies)
	}
}
