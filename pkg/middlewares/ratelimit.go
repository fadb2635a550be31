package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles the routes it guards with a single token bucket shared by every client.
// A non-positive limit disables throttling.
func RateLimitMiddleware(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(gctx *gin.Context) { gctx.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(gctx *gin.Context) {
		if !limiter.Allow() {
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many updates, slow down",
			})
			return
		}
		gctx.Next()
	}
}
