package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter applies per-host rate limiting to data source requests. The
// window queries are two calls, but link lookups fan out per subject and
// must not hammer the shared PostgREST endpoint.
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rps      rate.Limit
	burst    int
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given
// burst for each host it sees.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until a request to the given host is allowed or the context
// is cancelled.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.limiter(host).Wait(ctx)
}

// Allow reports whether a request to the given host is allowed right now,
// without waiting.
func (l *Limiter) Allow(host string) bool {
	return l.limiter(host).Allow()
}

func (l *Limiter) limiter(host string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[host]
	l.mu.RUnlock()

	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring the write lock
	if lim, ok := l.limiters[host]; ok {
		return lim
	}

	lim = rate.NewLimiter(l.rps, l.burst)
	l.limiters[host] = lim

	return lim
}
