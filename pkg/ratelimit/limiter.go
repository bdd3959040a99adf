// Package ratelimit provides a per-client token bucket for the jobs API.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PerClient tracks one token bucket per client_id.
//
// Buckets refill at perMinute tokens per minute with a burst of perMinute,
// so a quiet client can post a full minute's quota at once. Entries are
// never evicted; the client population of a single bridge deployment is
// small and bounded by the calling platform.
type PerClient struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
}

// NewPerClient builds a limiter allowing perMinute requests per client per
// minute. perMinute <= 0 disables limiting entirely.
func NewPerClient(perMinute int) *PerClient {
	return &PerClient{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

// Enabled reports whether limiting is active.
func (l *PerClient) Enabled() bool {
	return l.perMinute > 0
}

// Allow reports whether clientID may proceed with one more request.
func (l *PerClient) Allow(clientID string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[clientID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.limiters[clientID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
