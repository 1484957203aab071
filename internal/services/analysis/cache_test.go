package analysis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sentimental/internal/adapters/redis"
	"sentimental/internal/domain/sentiment"
	"sentimental/internal/testsupport"
	"sentimental/pkg/errors"
)

type fakeKV struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string, dest interface{}) error {
	if f.failGet {
		return errors.New("connection refused")
	}
	raw, ok := f.data[key]
	if !ok {
		return redis.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.ttls[key] = ttl
	return nil
}

func TestRedisCache_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	cache := NewRedisCache(kv, 5*time.Minute)
	req := Request{Query: "golang", MaxItems: 10}
	ctx := context.Background()

	got, err := cache.Get(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, got)

	timeline := []sentiment.TimelineBucket{
		{Index: 0, Label: "now", Count: 2},
		{Index: 3, Label: "3h ago", Count: 1},
	}
	require.NoError(t, cache.Set(ctx, req, &Report{RunID: "run-1", Query: "golang", TotalItems: 3, PositivePct: 33.3, Timeline: timeline}))
	assert.Equal(t, 5*time.Minute, kv.ttls[CacheKey(req)])

	got, err = cache.Get(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 33.3, got.PositivePct)
	assert.Equal(t, timeline, got.Timeline, "bucket indices survive the cache")
}

func TestRedisCache_ErrorIsReported(t *testing.T) {
	kv := newFakeKV()
	kv.failGet = true

	_, err := NewRedisCache(kv, time.Minute).Get(context.Background(), Request{Query: "x"})
	assert.Error(t, err)
}

func TestAnalyze_CacheFailureFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.failGet = true
	f := &MockFetcher{}

	report, err := newService(f, WithCache(NewRedisCache(kv, time.Minute))).
		Analyze(context.Background(), Request{Query: "x", UseRealData: false, MaxItems: 2})
	require.NoError(t, err)
	assert.False(t, report.Cached)
	assert.Len(t, kv.data, 1)
	f.AssertNotCalled(t, "FetchAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedisCache_Integration(t *testing.T) {
	cfg := testsupport.LoadRedisConfigFromEnv(t)
	client := redis.Wrap(testsupport.NewRedisClient(t, cfg))
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()
	req := Request{Query: "integration"}

	got, err := cache.Get(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, req, &Report{RunID: "r", Query: "integration"}))
	got, err = cache.Get(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "r", got.RunID)

	ttl, err := client.TTL(ctx, CacheKey(req))
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}
