package llmprovider

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"station-ops-bot/pkg/log"
)

// maxBackoff bounds a single retry delay when no RetryMaxDelay is configured.
const maxBackoff = 5 * time.Minute

// Observer receives the outcome of every provider attempt.
type Observer interface {
	ObserveCompletion(provider string, duration time.Duration, err error)
}

// Manager orchestrates provider selection, fallback, and retry logic
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
	observer  Observer
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	RetryMaxDelay   time.Duration
	MaxTotalTimeout time.Duration // bounds the whole fallback chain
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// SetObserver attaches an observer for per-attempt timing.
func (m *Manager) SetObserver(o Observer) {
	m.observer = o
}

// Name lists the configured providers in priority order.
func (m *Manager) Name() string {
	names := ""
	for i, p := range m.providers {
		if i > 0 {
			names += ","
		}
		names += p.Name()
	}
	return names
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: global timeout exceeded after trying %d provider(s): %v",
				ErrProviderTimeout, len(m.providers), ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry retries one provider with exponential backoff and jitter.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := m.backoff(attempt - 1)
			m.logger.Debugf(ctx, "llmprovider: retrying %s in %s (attempt %d/%d)", provider.Name(), delay, attempt, attempts)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		start := time.Now()
		resp, err := provider.GenerateContent(ctx, req)
		if m.observer != nil {
			m.observer.ObserveCompletion(provider.Name(), time.Since(start), err)
		}
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// backoff returns RetryDelay * 2^(n-1), capped at RetryMaxDelay (or maxBackoff), plus up to 10% jitter.
func (m *Manager) backoff(n int) time.Duration {
	base, ceiling := m.config.RetryDelay, m.config.RetryMaxDelay
	if base <= 0 {
		return 0
	}

	if ceiling <= 0 {
		ceiling = maxBackoff
	}

	shift := n - 1
	if shift < 0 {
		shift = 0
	}
	delay := base << shift
	if delay <= 0 || delay>>shift != base || delay > ceiling {
		delay = ceiling
	}
	return delay + time.Duration(rand.Int64N(int64(delay)/10+1))
}

// logSuccess logs successful LLM generation with usage
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	in, out := 0, 0
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Infof(ctx, "llmprovider: generation successful provider=%s model=%s input_tokens=%d output_tokens=%d",
		provider.Name(), provider.Model(), in, out)
}

// logFailure logs failed LLM generation attempts
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "llmprovider: generation failed provider=%s model=%s: %v",
		provider.Name(), provider.Model(), err)
}
