package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"sentimental/pkg/errors"
)

// Limiter enforces one source's request window
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a limiter admitting requestsPerMinute with the given burst.
// A non-positive rate disables limiting.
func NewLimiter(name string, requestsPerMinute int, burst int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1), name: name}
	}

	if burst < 1 {
		burst = requestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
		name:    name,
	}
}

// Wait blocks until the window admits a request or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrRateLimitExceeded, "rate limiter %s: %v", l.name, err)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the limiter's source name
func (l *Limiter) Name() string {
	return l.name
}

// Registry shares one limiter per external domain, so adapters hitting the same
// host (e.g. several subreddit searches) are sequenced through a single window.
type Registry struct {
	limiters map[string]*Limiter
	mu       sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{limiters: make(map[string]*Limiter)}
}

// Get returns the limiter for key, creating it on first use
func (r *Registry) Get(key string, requestsPerMinute, burst int) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[key]; ok {
		return l
	}
	l := NewLimiter(key, requestsPerMinute, burst)
	r.limiters[key] = l
	return l
}
