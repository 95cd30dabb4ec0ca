package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"golang.org/x/time/rate"
)

// rateLimiter throttles callers keyed by the sharer header when present,
// otherwise by remote host. With a view cache attached the counter lives
// there, so the limit is shared across instances; without one (or when
// the cache errors) a local token bucket per caller takes over.
type rateLimiter struct {
	limiters sync.Map
	cfg      *config.APIConfig
	cache    domain.ViewCache
}

func newRateLimiter(cfg *config.APIConfig, cache domain.ViewCache) *rateLimiter {
	return &rateLimiter{
		cfg:   cfg,
		cache: cache,
	}
}

func (l *rateLimiter) allow(r *http.Request) bool {
	if l.cfg.RateLimit.RPS <= 0 {
		return true
	}
	key := clientKey(r)

	if l.cache != nil {
		limit := int(l.cfg.RateLimit.RPS)
		if limit < 1 {
			limit = 1
		}
		allowed, err := l.cache.CheckRateLimit(r.Context(), key, limit, time.Second)
		if err == nil {
			return allowed
		}
	}

	return l.getLimiter(key).Allow()
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RateLimit.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

func clientKey(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sharerHeader)); id != "" {
		return id
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
