package telegram

import "errors"

var (
	errQueueFull    = errors.New("telegram: dispatch queue is full")
	errBadSecret    = errors.New("telegram: secret token mismatch")
	errNoTextUpdate = errors.New("telegram: update carries no text message")
)
