package anthropic

import "time"

const (
	// DefaultModel is the default Claude model
	DefaultModel = "claude-3-5-haiku-latest"

	// DefaultMaxTokens caps the reply when the request does not set one
	DefaultMaxTokens = 1024

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	jsonOnlyInstruction = "Respond with a single JSON object and nothing else."
)
