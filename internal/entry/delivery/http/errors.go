package http

import (
	"errors"

	"station-ops-bot/internal/entry"
)

var errNothingToProcess = errors.New("nothing to process")

// mapError translates use-case errors into client-facing errors.
// It returns nil for errors that must surface as 500.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, entry.ErrEmptyInput):
		return errNothingToProcess
	default:
		return nil
	}
}
