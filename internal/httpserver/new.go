package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"station-ops-bot/internal/entry"
	tgDelivery "station-ops-bot/internal/entry/delivery/telegram"
	"station-ops-bot/internal/middleware"
	"station-ops-bot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Entry domain
	entryUC         entry.UseCase
	telegramHandler tgDelivery.Handler
	middleware      middleware.Middleware

	// Observability
	gatherer   prometheus.Gatherer
	readyCheck func(ctx context.Context) error
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Entry domain
	EntryUseCase    entry.UseCase
	TelegramHandler tgDelivery.Handler // nil when polling
	PerIPPerMin     int

	// Observability
	Gatherer   prometheus.Gatherer
	ReadyCheck func(ctx context.Context) error
}

// New creates a new HTTPServer instance with every route mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		entryUC:         cfg.EntryUseCase,
		telegramHandler: cfg.TelegramHandler,
		middleware:      middleware.New(logger, cfg.PerIPPerMin),
		gatherer:        cfg.Gatherer,
		readyCheck:      cfg.ReadyCheck,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.entryUC == nil {
		return errors.New("entry usecase is required")
	}
	return nil
}
