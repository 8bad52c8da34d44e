package http

import (
	"github.com/gin-gonic/gin"

	"station-ops-bot/internal/entry"
	"station-ops-bot/pkg/log"
)

// Handler is the public interface for the entry HTTP delivery layer.
type Handler interface {
	Process(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc entry.UseCase
}

// New creates a new HTTP handler for the entry domain.
func New(l log.Logger, uc entry.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
