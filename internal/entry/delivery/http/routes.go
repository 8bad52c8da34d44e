package http

import (
	"github.com/gin-gonic/gin"

	"station-ops-bot/internal/middleware"
)

// RegisterRoutes maps the entry endpoints under rg. Every route is rate limited per client IP.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/messages", mw.RateLimit(), h.Process)
}
