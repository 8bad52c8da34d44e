package telegram

import (
	"context"

	pkgTelegram "station-ops-bot/pkg/telegram"
)

func (h *handler) enqueue(msg *pkgTelegram.Message) error {
	select {
	case h.queue <- msg:
		h.metrics.SetQueueDepth(len(h.queue))
		return nil
	default:
		return errQueueFull
	}
}

// enqueueWait blocks until the queue has room or ctx ends.
func (h *handler) enqueueWait(ctx context.Context, msg *pkgTelegram.Message) error {
	select {
	case h.queue <- msg:
		h.metrics.SetQueueDepth(len(h.queue))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes queued messages one at a time until ctx is cancelled.
// A single worker keeps a chat's messages in arrival order.
func (h *handler) Run(ctx context.Context) {
	h.l.Info(ctx, "telegram dispatcher: started")
	for {
		select {
		case <-ctx.Done():
			h.l.Info(ctx, "telegram dispatcher: stopped")
			return
		case msg := <-h.queue:
			h.metrics.SetQueueDepth(len(h.queue))
			h.dispatch(ctx, msg)
		}
	}
}

func (h *handler) dispatch(ctx context.Context, msg *pkgTelegram.Message) {
	defer func() {
		if r := recover(); r != nil {
			h.l.Errorf(ctx, "telegram dispatcher: panic while processing chat %d: %v", msg.Chat.ID, r)
			_ = h.bot.SendMessage(ctx, msg.Chat.ID, replyProcessingError)
		}
	}()

	if err := h.processMessage(ctx, msg); err != nil {
		h.l.Errorf(ctx, "telegram dispatcher: processMessage failed: %v", err)
		// Best-effort error notification to user
		if sendErr := h.bot.SendMessage(ctx, msg.Chat.ID, replyProcessingError); sendErr != nil {
			h.l.Warnf(ctx, "telegram dispatcher: failed to send error reply: %v", sendErr)
		}
	}
}
