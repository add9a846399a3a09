// Package ratelimit provides a per-client request limiter.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// VisitorLimiter hands out one token-bucket limiter per client address and
// forgets clients that have been idle for longer than ttl.
type VisitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration
}

func NewVisitorLimiter(rps float64, burst int) *VisitorLimiter {
	return &VisitorLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      5 * time.Minute,
	}
}

// Allow reports whether a request from addr may proceed now.
func (l *VisitorLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[addr] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// StartCleanupLoop evicts idle visitors every minute until stop is closed.
func (l *VisitorLimiter) StartCleanupLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *VisitorLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for addr, v := range l.visitors {
		if time.Since(v.lastSeen) > l.ttl {
			delete(l.visitors, addr)
		}
	}
}
