package telegram

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/metrics"
	pkgLog "station-ops-bot/pkg/log"
	"station-ops-bot/pkg/ratelimit"
	pkgTelegram "station-ops-bot/pkg/telegram"
)

// Bot is the part of the Telegram Bot API the delivery layer talks to.
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error
	DeleteWebhook(ctx context.Context) error
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]pkgTelegram.Update, error)
}

// Handler receives Telegram updates by webhook or long polling and
// feeds them to a single dispatcher worker.
type Handler interface {
	HandleWebhook(c *gin.Context)
	Run(ctx context.Context)
	Poll(ctx context.Context) error
}

// Config tunes the delivery layer.
type Config struct {
	SecretToken   string
	QueueSize     int
	PerChatPerMin int
	PollTimeout   time.Duration
}

type handler struct {
	l       pkgLog.Logger
	uc      entry.UseCase
	bot     Bot
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter
	queue   chan *pkgTelegram.Message
	cfg     Config
}

const (
	defaultQueueSize   = 100
	defaultPollTimeout = 30 * time.Second
)

// New creates the Telegram handler. Call Run once to start the dispatcher.
func New(l pkgLog.Logger, uc entry.UseCase, bot Bot, m *metrics.Metrics, cfg Config) Handler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}

	return &handler{
		l:       l,
		uc:      uc,
		bot:     bot,
		metrics: m,
		limiter: ratelimit.New(cfg.PerChatPerMin),
		queue:   make(chan *pkgTelegram.Message, cfg.QueueSize),
		cfg:     cfg,
	}
}
