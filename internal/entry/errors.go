package entry

import "errors"

// Domain-specific errors for the entry package.
var (
	ErrEmptyInput     = errors.New("nothing to process")
	ErrCompletion     = errors.New("completion backend failed")
	ErrMalformedReply = errors.New("completion reply is not a valid entry object")
	ErrMissingFields  = errors.New("entry is missing required fields")
	ErrStorage        = errors.New("failed to store entry")
)
