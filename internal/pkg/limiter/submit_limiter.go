/*
Package limiter provides submit rate limiting keyed by action name.

It uses the Token Bucket algorithm (rate.Limiter) so that a form submitted twice in
quick succession (a double-click, a repeated key press) issues a single request.
*/
package limiter

import (
	"sync"

	"golang.org/x/time/rate"
)

// SubmitLimiter holds one token bucket per action key.
type SubmitLimiter struct {
	// mu protects the limits map.
	mu sync.RWMutex

	// limits maps an action key to its bucket.
	limits map[string]*rate.Limiter

	// r is the refill rate in events per second.
	r rate.Limit

	// b is the bucket size.
	b int
}

// NewSubmitLimiter returns a limiter allowing b submits per key with refill rate r.
// A zero rate disables limiting.
func NewSubmitLimiter(r rate.Limit, b int) *SubmitLimiter {
	if b < 1 {
		b = 1
	}
	return &SubmitLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}
}

// GetLimiter returns the bucket for key, creating it on first use.
func (l *SubmitLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limits[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		limiter, exists = l.limits[key]
		if !exists {
			limiter = rate.NewLimiter(l.r, l.b)
			l.limits[key] = limiter
		}
		l.mu.Unlock()
	}

	return limiter
}

// Allow reports whether a submit for key may proceed now and consumes a token if so.
// A nil limiter allows everything.
func (l *SubmitLimiter) Allow(key string) bool {
	if l == nil || l.r == 0 {
		return true
	}
	return l.GetLimiter(key).Allow()
}
