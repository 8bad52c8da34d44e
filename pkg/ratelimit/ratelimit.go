package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// ErrLimited is returned when a key has used up its budget.
var ErrLimited = errors.New("rate limit exceeded")

const (
	defaultMaxKeys = 1000
	defaultTTL     = 5 * time.Minute
)

// Limiter is a keyed token bucket limiter. Idle keys expire on their own.
type Limiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// New allows requestsPerMin per key with a burst of a tenth of that (at least 1).
// A non-positive requestsPerMin returns a limiter that allows everything.
func New(requestsPerMin int) *Limiter {
	if requestsPerMin <= 0 {
		return &Limiter{rate: rate.Inf}
	}

	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](defaultMaxKeys, nil, defaultTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) error {
	if l.rate == rate.Inf {
		return nil
	}

	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrLimited, key)
	}
	return nil
}
