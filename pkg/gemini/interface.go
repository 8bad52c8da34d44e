package gemini

import "context"

// Generator is the Gemini backend behind llmprovider.GeminiAdapter. The bot
// sends one classification prompt per message segment through it.
type Generator interface {
	// GenerateContent runs a single generateContent call. The reply text is in
	// the first candidate.
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Model names the model in the request path, e.g. "gemini-2.5-flash".
	Model() string
}

// New validates cfg, fills defaults and returns a Generator that can be shared
// across goroutines.
func New(cfg Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGeminiImpl(cfg), nil
}
