package telegram

import (
	"context"
	"errors"
	"time"
)

const pollRetryDelay = 3 * time.Second

// Poll removes any registered webhook and long-polls getUpdates until ctx is cancelled.
func (h *handler) Poll(ctx context.Context) error {
	if err := h.bot.DeleteWebhook(ctx); err != nil {
		return err
	}
	h.l.Infof(ctx, "telegram poller: long polling every %s", h.cfg.PollTimeout)

	var offset int64
	for {
		updates, err := h.bot.GetUpdates(ctx, offset, h.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			h.l.Warnf(ctx, "telegram poller: getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}

			msg, err := textMessage(update)
			if err != nil {
				continue
			}
			if err := h.enqueueWait(ctx, msg); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
		}
	}
}
