package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimental/pkg/errors"
)

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter("reddit", 60, 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "burst exhausted")
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter("rss", 0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow())
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter("github", 1, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
}

func TestRegistry_SharesPerKey(t *testing.T) {
	r := NewRegistry()
	a := r.Get("www.reddit.com", 30, 1)
	b := r.Get("www.reddit.com", 999, 50)
	c := r.Get("api.github.com", 30, 1)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "www.reddit.com", a.Name())
}
