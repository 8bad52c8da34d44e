package middleware

import (
	"station-ops-bot/pkg/log"
	"station-ops-bot/pkg/ratelimit"
)

// Middleware bundles the gin middlewares shared by every HTTP route.
type Middleware struct {
	l       log.Logger
	limiter *ratelimit.Limiter
}

// New creates the middleware set. perIPPerMin <= 0 disables rate limiting.
func New(l log.Logger, perIPPerMin int) Middleware {
	return Middleware{
		l:       l,
		limiter: ratelimit.New(perIPPerMin),
	}
}
