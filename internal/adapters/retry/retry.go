// Package retry re-runs transient remote failures with backoff
package retry

import (
	"context"
	"math"
	"net"
	"net/http"
	"time"

	"sentimental/pkg/errors"
)

// Strategy defines how the delay grows between attempts
type Strategy string

const (
	StrategyExponential Strategy = "exponential"
	StrategyLinear      Strategy = "linear"
	StrategyFixed       Strategy = "fixed"
)

// Config contains retry configuration. MaxRetries counts the attempts after the first.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Strategy     Strategy
	Multiplier   float64
}

// DefaultConfig retries once after a short pause; a source must answer within
// its timeout so long backoffs would only burn the deadline.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   1,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Strategy:     StrategyExponential,
		Multiplier:   2.0,
	}
}

// Policy executes functions with retry and backoff
type Policy struct {
	config Config
}

// New creates a policy, filling unset fields from DefaultConfig.
// A negative MaxRetries disables retrying.
func New(config Config) *Policy {
	def := DefaultConfig()
	if config.MaxRetries == 0 {
		config.MaxRetries = def.MaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.Strategy == "" {
		config.Strategy = def.Strategy
	}
	return &Policy{config: config}
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// Attempts returns how many calls were made.
func Do[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, int, error) {
	var zero T
	if p == nil {
		v, err := fn(ctx)
		return v, 1, err
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		attempts++
		v, err := fn(ctx)
		if err == nil {
			return v, attempts, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == p.config.MaxRetries {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, attempts, lastErr
		case <-timer.C:
		}
	}

	if attempts > 1 {
		return zero, attempts, errors.Wrapf(lastErr, "after %d attempts", attempts)
	}
	return zero, attempts, lastErr
}

// Delay returns the pause after the given zero-based attempt
func (p *Policy) Delay(attempt int) time.Duration {
	var delay time.Duration

	switch p.config.Strategy {
	case StrategyLinear:
		delay = p.config.InitialDelay * time.Duration(1+attempt)
	case StrategyFixed:
		delay = p.config.InitialDelay
	default:
		delay = time.Duration(float64(p.config.InitialDelay) * math.Pow(p.config.Multiplier, float64(attempt)))
	}

	if delay > p.config.MaxDelay {
		delay = p.config.MaxDelay
	}
	return delay
}

// Retryable reports whether err is a transient remote failure.
// Timeouts imposed by the caller are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errors.ErrTimeout) || errors.Is(err, errors.ErrCircuitOpen) {
		return false
	}

	var httpErr interface{ StatusCode() int }
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode()
		return code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout ||
			code >= 500
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
