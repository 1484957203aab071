package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimental/internal/domain/sentiment"
	"sentimental/pkg/errors"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	name   string
	items  []sentiment.RawItem
	err    error
	delay  time.Duration
	gate   func(string) bool
	called bool
}

func (f *fakeSource) Name() string                 { return f.name }
func (f *fakeSource) Platform() sentiment.Platform { return sentiment.PlatformNews }

func (f *fakeSource) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	f.called = true
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.items, f.err
}

type gatedSource struct{ *fakeSource }

func (g gatedSource) Accepts(query string) bool { return g.gate(query) }

func item(text string, age time.Duration) sentiment.RawItem {
	return sentiment.RawItem{Text: text, Platform: sentiment.PlatformNews, CreatedAt: now.Add(-age)}
}

func TestFetchAll_MergeDedupSort(t *testing.T) {
	a := &fakeSource{name: "a", items: []sentiment.RawItem{
		item("First story about the Go language", 3*time.Hour),
		item("  Second   story about the Go language  ", time.Hour),
		item("short", 0),
	}}
	b := &fakeSource{name: "b", items: []sentiment.RawItem{
		item("Second story about the Go language", 0),
		item("Third story about the Go language", 2*time.Hour),
	}}

	f := NewFetcher([]Source{a, b}, 20)
	res, err := f.FetchAll(context.Background(), "go", 10)
	require.NoError(t, err)

	texts := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		texts = append(texts, it.Text)
	}
	assert.Equal(t, []string{
		"Second story about the Go language",
		"Third story about the Go language",
		"First story about the Go language",
	}, texts)

	// first occurrence (from a, one hour old) wins over b's copy
	assert.Equal(t, now.Add(-time.Hour), res.Items[0].CreatedAt)
	assert.Equal(t, 1, res.Noise)
	assert.Equal(t, 1, res.Dupes)

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "a", res.Sources[0].Name)
	assert.Equal(t, 2, res.Sources[0].Count)
	assert.Equal(t, 2, res.Sources[1].Count)
}

func TestFetchAll_FailedSourceDoesNotFailFetch(t *testing.T) {
	ok := &fakeSource{name: "ok", items: []sentiment.RawItem{item("A perfectly fine item of text", 0)}}
	broken := &fakeSource{name: "broken", err: errors.NewSourceError("broken", errors.New("502"))}

	res, err := NewFetcher([]Source{broken, ok}, 0).FetchAll(context.Background(), "go", 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.True(t, errors.Is(res.Sources[0].Err, errors.ErrSourceUnavailable))
	assert.NotEmpty(t, res.Sources[0].Error)
	assert.NoError(t, res.Sources[1].Err)
}

func TestFetchAll_TimingOutSourceIsIsolated(t *testing.T) {
	fast1 := &fakeSource{name: "fast1", items: []sentiment.RawItem{item("Fast source one has an opinion", 0)}}
	slow := &fakeSource{name: "slow", delay: 2 * time.Second, items: []sentiment.RawItem{item("Slow source finally answered late", 0)}}
	fast2 := &fakeSource{name: "fast2", items: []sentiment.RawItem{item("Fast source two has an opinion", 0)}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := NewFetcher([]Source{fast1, slow, fast2}, 0).FetchAll(ctx, "go", 10)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
	assert.Len(t, res.Items, 2)
	assert.True(t, errors.Is(res.Sources[1].Err, errors.ErrTimeout))
	assert.True(t, errors.Is(res.Sources[1].Err, errors.ErrSourceUnavailable))
	assert.Equal(t, 0, res.Sources[1].Count)
}

func TestFetchAll_NoData(t *testing.T) {
	empty := &fakeSource{name: "empty"}
	broken := &fakeSource{name: "broken", err: errors.New("down")}

	res, err := NewFetcher([]Source{empty, broken}, 0).FetchAll(context.Background(), "go", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoDataFound))
	require.NotNil(t, res)
	assert.Len(t, res.Sources, 2)
}

func TestFetchAll_EmptyQuery(t *testing.T) {
	_, err := NewFetcher(nil, 0).FetchAll(context.Background(), "   ", 10)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestFetchAll_GatedSourceSkipped(t *testing.T) {
	inner := &fakeSource{name: "github", items: []sentiment.RawItem{item("gin: web framework written in Go", 0)}}
	gated := gatedSource{fakeSource: inner}
	inner.gate = func(q string) bool { return q == "code" }
	other := &fakeSource{name: "hn", items: []sentiment.RawItem{item("Football match ended in a draw", 0)}}

	res, err := NewFetcher([]Source{gated, other}, 0).FetchAll(context.Background(), "football", 10)
	require.NoError(t, err)
	assert.False(t, inner.called)
	assert.True(t, res.Sources[0].Skipped)
	assert.Len(t, res.Items, 1)
}

func TestDedup_Idempotent(t *testing.T) {
	in := []sentiment.RawItem{
		item("alpha alpha alpha alpha", 0),
		item("beta beta beta beta beta", 0),
		item("alpha alpha alpha alpha", time.Hour),
		item("gamma gamma gamma gamma", 0),
		item("beta beta beta beta beta", 0),
	}

	once, removed := Dedup(in)
	twice, removedAgain := Dedup(once)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, removedAgain)
	assert.Equal(t, once, twice)
	assert.Equal(t, now, once[0].CreatedAt, "first occurrence wins")
}

func TestSortNewestFirst_Stable(t *testing.T) {
	items := []sentiment.RawItem{
		item("same time one", 0),
		item("older", time.Hour),
		item("same time two", 0),
	}
	SortNewestFirst(items)
	assert.Equal(t, "same time one", items[0].Text)
	assert.Equal(t, "same time two", items[1].Text)
	assert.Equal(t, "older", items[2].Text)
}
