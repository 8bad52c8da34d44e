package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/metrics"
	"station-ops-bot/internal/model"
	pkgLog "station-ops-bot/pkg/log"
	pkgResponse "station-ops-bot/pkg/response"
	pkgTelegram "station-ops-bot/pkg/telegram"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// HandleWebhook acknowledges the update at once and hands the message to the dispatcher.
// A full queue answers 503 so Telegram redelivers later.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cfg.SecretToken != "" && c.GetHeader(secretTokenHeader) != h.cfg.SecretToken {
		h.l.Warnf(ctx, "telegram handler: %v", errBadSecret)
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	msg, err := textMessage(update)
	if err != nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	if err := h.enqueue(msg); err != nil {
		h.l.Warnf(ctx, "telegram handler: update %d rejected: %v", update.UpdateID, err)
		pkgResponse.ServiceUnavailable(c)
		return
	}

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func textMessage(update pkgTelegram.Update) (*pkgTelegram.Message, error) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		return nil, errNoTextUpdate
	}
	return msg, nil
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	ctx = pkgLog.WithTraceID(ctx, pkgLog.NewTraceID())
	chatID := msg.Chat.ID

	h.l.Infof(ctx, "telegram handler: message from chat %d", chatID)

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, msg.Text)
	}

	if err := h.limiter.Allow(fmt.Sprintf("chat:%d", chatID)); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		h.metrics.MessageProcessed(metrics.ResultLimited)
		return h.bot.SendMessage(ctx, chatID, replySlowDown)
	}

	sc := model.Scope{ChatID: chatID, Source: model.SourceTelegram}
	if msg.From != nil {
		sc.Username = msg.From.Username
	}

	out, err := h.uc.Process(ctx, sc, entry.ProcessInput{ChatID: chatID, RawText: msg.Text})
	if err != nil && !errors.Is(err, entry.ErrEmptyInput) {
		return err
	}

	return h.bot.SendMessage(ctx, chatID, out.Reply)
}

func (h *handler) handleCommand(ctx context.Context, chatID int64, text string) error {
	command, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	// Commands addressed to a named bot arrive as /help@station_bot.
	command, _, _ = strings.Cut(command, "@")

	switch command {
	case "/start":
		return h.bot.SendMessageWithMode(ctx, chatID, welcomeMessage, parseModeMarkdown)
	case "/help":
		return h.bot.SendMessageWithMode(ctx, chatID, helpMessage, parseModeMarkdown)
	}

	h.l.Debugf(ctx, "telegram handler: ignoring command %q", command)
	return nil
}
