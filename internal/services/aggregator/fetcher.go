package aggregator

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sentimental/internal/adapters/sources"
	"sentimental/internal/domain/sentiment"
	"sentimental/internal/metrics"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
	"sentimental/pkg/textnorm"
)

// Source is the adapter contract the fetcher fans out to
type Source = sources.Source

// SourceStatus reports what one source contributed to a fetch
type SourceStatus struct {
	Name     string             `json:"name"`
	Platform sentiment.Platform `json:"platform"`
	Count    int                `json:"count"`
	Skipped  bool               `json:"skipped,omitempty"`
	Err      error              `json:"-"`
	Error    string             `json:"error,omitempty"`
	Duration time.Duration      `json:"duration_ns"`
}

// Result is the merged corpus plus per-source outcomes in registration order
type Result struct {
	Items   []sentiment.RawItem
	Sources []SourceStatus
	Noise   int
	Dupes   int
}

// Fetcher queries every registered source concurrently and merges the results
type Fetcher struct {
	sources       []Source
	minTextLength int
	log           *logger.Logger
}

type outcome struct {
	idx      int
	items    []sentiment.RawItem
	err      error
	duration time.Duration
}

// NewFetcher creates a fetcher over srcs; registration order decides which
// duplicate survives.
func NewFetcher(srcs []Source, minTextLength int) *Fetcher {
	if minTextLength <= 0 {
		minTextLength = textnorm.MinTextLength
	}
	return &Fetcher{
		sources:       srcs,
		minTextLength: minTextLength,
		log:           logger.Get().With("component", "fetcher"),
	}
}

// Sources returns the registered sources
func (f *Fetcher) Sources() []Source {
	return f.sources
}

// FetchAll invokes every source accepting query concurrently and waits until
// all have answered or ctx is done; unfinished sources count as timed out and
// their late results are discarded. Items are normalized, noise is dropped,
// duplicates by exact text are removed (first wins) and the rest is sorted by
// CreatedAt descending. An empty corpus yields ErrNoDataFound together with the
// non-nil Result so callers can still inspect source statuses.
func (f *Fetcher) FetchAll(ctx context.Context, query string, perSourceLimit int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "query is empty")
	}

	statuses := make([]SourceStatus, len(f.sources))
	collected := make([][]sentiment.RawItem, len(f.sources))
	done := make([]bool, len(f.sources))

	// buffered so late sources never block after we stop listening
	results := make(chan outcome, len(f.sources))
	var g errgroup.Group

	pending := 0
	for i, src := range f.sources {
		statuses[i] = SourceStatus{Name: src.Name(), Platform: src.Platform()}

		if gated, ok := src.(sources.Gated); ok && !gated.Accepts(query) {
			statuses[i].Skipped = true
			done[i] = true
			continue
		}

		pending++
		g.Go(func() error {
			start := time.Now()
			items, err := src.Fetch(ctx, query, perSourceLimit)
			results <- outcome{idx: i, items: items, err: err, duration: time.Since(start)}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		f.log.Debugw("All sources returned", "query", query)
	}()

collect:
	for pending > 0 {
		select {
		case o := <-results:
			pending--
			done[o.idx] = true
			statuses[o.idx].Duration = o.duration
			if o.err != nil {
				statuses[o.idx].Err = o.err
				statuses[o.idx].Error = o.err.Error()
				continue
			}
			collected[o.idx] = o.items
		case <-ctx.Done():
			break collect
		}
	}

	for i := range statuses {
		if !done[i] {
			err := errors.NewSourceError(statuses[i].Name, errors.Wrap(errors.ErrTimeout, "deadline reached before source answered"))
			statuses[i].Err = err
			statuses[i].Error = err.Error()
		}
	}

	var merged []sentiment.RawItem
	noise := 0
	for i, items := range collected {
		kept := 0
		for _, item := range items {
			clean, ok := f.clean(item)
			if !ok {
				noise++
				continue
			}
			merged = append(merged, clean)
			kept++
		}
		statuses[i].Count = kept
	}

	merged, dupes := Dedup(merged)
	SortNewestFirst(merged)

	metrics.RecordDropped("noise", noise)
	metrics.RecordDropped("duplicate", dupes)

	result := &Result{Items: merged, Sources: statuses, Noise: noise, Dupes: dupes}

	f.log.Infow("Fetch complete",
		"query", query,
		"items", len(merged),
		"noise", noise,
		"duplicates", dupes,
		"failed", countFailed(statuses),
	)

	if len(merged) == 0 {
		return result, errors.Wrapf(errors.ErrNoDataFound, "query %q", query)
	}
	return result, nil
}

// clean normalizes item text and reports whether it survived the noise filter
func (f *Fetcher) clean(item sentiment.RawItem) (sentiment.RawItem, bool) {
	item.Text = textnorm.Normalize(item.Text)
	item.Title = textnorm.Normalize(item.Title)
	if textnorm.IsNoise(item.Text, f.minTextLength) {
		return item, false
	}
	return item, true
}

// Dedup removes items whose text was already seen, keeping the first.
// It returns the survivors and the number removed.
func Dedup(items []sentiment.RawItem) ([]sentiment.RawItem, int) {
	seen := make(map[string]struct{}, len(items))
	out := make([]sentiment.RawItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Text]; ok {
			continue
		}
		seen[item.Text] = struct{}{}
		out = append(out, item)
	}
	return out, len(items) - len(out)
}

// SortNewestFirst stable-sorts items by CreatedAt descending
func SortNewestFirst(items []sentiment.RawItem) {
	slices.SortStableFunc(items, func(a, b sentiment.RawItem) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func countFailed(statuses []SourceStatus) int {
	n := 0
	for _, s := range statuses {
		if s.Err != nil {
			n++
		}
	}
	return n
}
