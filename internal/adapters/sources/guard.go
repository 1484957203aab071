package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"sentimental/internal/adapters/ratelimit"
	"sentimental/internal/adapters/retry"
	"sentimental/internal/domain/sentiment"
	"sentimental/internal/metrics"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
)

// GuardOptions configures the isolation boundary around one source
type GuardOptions struct {
	Timeout         time.Duration
	Limiter         *ratelimit.Limiter
	Retry           *retry.Policy
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Tracker         errors.Tracker
}

// Guarded wraps a Source so that its failures never escape as anything but an
// ErrSourceUnavailable with no items.
type Guarded struct {
	src     Source
	opts    GuardOptions
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

type fetchResult struct {
	items []sentiment.RawItem
	err   error
}

// Isolate wraps src with a timeout, rate limiting, retries, a circuit breaker
// and panic recovery. Retries run inside the breaker so one call counts once.
func Isolate(src Source, opts GuardOptions) *Guarded {
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = time.Minute
	}

	log := logger.Get().With("component", "source", "source", src.Name())
	failures := opts.BreakerFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        src.Name(),
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// the caller giving up is not the source's fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnw("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})

	return &Guarded{src: src, opts: opts, breaker: breaker, log: log}
}

func (g *Guarded) Name() string {
	return g.src.Name()
}

func (g *Guarded) Platform() sentiment.Platform {
	return g.src.Platform()
}

// Accepts delegates to the wrapped source's gate, if any
func (g *Guarded) Accepts(query string) bool {
	if gated, ok := g.src.(Gated); ok {
		return gated.Accepts(query)
	}
	return true
}

// Available reports whether the breaker currently lets requests through
func (g *Guarded) Available() bool {
	return g.breaker.State() != gobreaker.StateOpen
}

// State returns the breaker state name: closed, half-open or open
func (g *Guarded) State() string {
	return g.breaker.State().String()
}

// Fetch calls the wrapped source. On any failure it returns nil items and an
// error satisfying errors.Is(err, errors.ErrSourceUnavailable).
func (g *Guarded) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	start := time.Now()

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	items, err := g.fetch(ctx, query, limit)
	elapsed := time.Since(start)

	if err != nil {
		status := failureStatus(err)
		metrics.RecordSourceFetch(g.Name(), status, elapsed, 0)

		srcErr := errors.NewSourceError(g.Name(), err)
		if status == "circuit_open" {
			g.log.Debugw("Source skipped", "reason", status)
		} else {
			g.log.Warnw("Source fetch failed", "status", status, "duration", elapsed, "error", err)
			if g.opts.Tracker != nil {
				_ = g.opts.Tracker.CaptureError(ctx, srcErr, map[string]string{
					"source":   g.Name(),
					"platform": string(g.Platform()),
					"status":   status,
				})
			}
		}
		return nil, srcErr
	}

	metrics.RecordSourceFetch(g.Name(), "success", elapsed, len(items))
	g.log.Debugw("Source fetched", "items", len(items), "duration", elapsed)
	return items, nil
}

func (g *Guarded) fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	if g.opts.Limiter != nil {
		if err := g.opts.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		items, attempts, err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) ([]sentiment.RawItem, error) {
			return g.call(ctx, query, limit)
		})
		if attempts > 1 {
			g.log.Debugw("Source retried", "attempts", attempts, "error", err)
		}
		return items, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(errors.ErrCircuitOpen, err.Error())
		}
		return nil, err
	}

	items, _ := out.([]sentiment.RawItem)
	return capItems(items, limit), nil
}

// call runs the adapter on its own goroutine so that an adapter ignoring ctx
// still releases the caller at the deadline.
func (g *Guarded) call(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	done := make(chan fetchResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("panic in source %s: %v", g.Name(), r)}
			}
		}()
		items, err := g.src.Fetch(ctx, query, limit)
		done <- fetchResult{items: items, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && ctx.Err() != nil {
			return nil, timeoutOr(ctx.Err())
		}
		return res.items, res.err
	case <-ctx.Done():
		return nil, timeoutOr(ctx.Err())
	}
}

func timeoutOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrTimeout, err.Error())
	}
	return err
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, errors.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, errors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
