package entry

import (
	"context"

	"station-ops-bot/internal/model"
)

// UseCase turns one chat message into stored records and a confirmation reply.
type UseCase interface {
	// Process runs every segment of the message through the pipeline in order.
	// It returns ErrEmptyInput (with the reply set) when the message has no content.
	Process(ctx context.Context, sc model.Scope, input ProcessInput) (ProcessOutput, error)
}
