// Package analysis runs the fetch, classify and aggregate pipeline for one query
package analysis

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"sentimental/internal/domain/sentiment"
	"sentimental/internal/metrics"
	"sentimental/internal/services/aggregator"
	"sentimental/internal/services/classifier"
	"sentimental/internal/services/timeline"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
	"sentimental/pkg/textnorm"
)

const sampleTextLength = 200

// Fetcher collects the merged real corpus for a query
type Fetcher interface {
	FetchAll(ctx context.Context, query string, perSourceLimit int) (*aggregator.Result, error)
}

// Classifier labels items
type Classifier interface {
	ClassifyAll(ctx context.Context, items []sentiment.RawItem) ([]sentiment.ClassifiedItem, error)
}

// Generator synthesizes items when real data is short
type Generator interface {
	Generate(query string, count int) []sentiment.RawItem
}

// Service runs analyses; it holds no per-request state
type Service struct {
	fetcher    Fetcher
	classifier Classifier
	generator  Generator
	cache      ReportCache
	defaults   Defaults
	clock      clockwork.Clock
	log        *logger.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithCache enables report caching
func WithCache(cache ReportCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithClock overrides the clock used for timestamps and bucketing
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a new analysis service
func NewService(fetcher Fetcher, cls Classifier, generator Generator, defaults Defaults, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		classifier: cls,
		generator:  generator,
		defaults:   defaults,
		clock:      clockwork.NewRealClock(),
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the values applied to unset request fields
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Analyze runs the pipeline for req. It fails with ErrInvalidInput for an
// empty query and with ErrNoDataFound when neither real nor synthetic data
// yields a single item.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	req = s.defaults.apply(req)
	if req.Query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "query is required")
	}

	start := s.clock.Now()
	log := s.log.With("query", req.Query)

	if cached := s.lookup(ctx, req); cached != nil {
		metrics.RecordPipelineRun("cached", s.clock.Since(start))
		return cached, nil
	}

	report, err := s.run(ctx, req)
	if err != nil {
		status := "error"
		if errors.Is(err, errors.ErrNoDataFound) {
			status = "no_data"
		}
		metrics.RecordPipelineRun(status, s.clock.Since(start))
		log.Warnw("Analysis failed", "error", err)
		return nil, err
	}

	metrics.RecordPipelineRun("success", s.clock.Since(start))
	log.Infow("Analysis complete",
		"run_id", report.RunID,
		"items", report.TotalItems,
		"synthetic", report.SyntheticItems,
		"positive", report.PositivePct,
		"negative", report.NegativePct,
		"duration", s.clock.Since(start),
	)

	s.store(ctx, req, report)
	return report, nil
}

func (s *Service) run(ctx context.Context, req Request) (*Report, error) {
	var (
		items    []sentiment.RawItem
		statuses []aggregator.SourceStatus
	)

	if req.UseRealData {
		fetchCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.defaults.FetchDeadline > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, s.defaults.FetchDeadline)
		}
		res, err := s.fetcher.FetchAll(fetchCtx, req.Query, req.PerSourceLimit)
		cancel()

		if err != nil && !errors.Is(err, errors.ErrNoDataFound) {
			return nil, err
		}
		if res != nil {
			items = res.Items
			statuses = res.Sources
		}
		if len(items) > req.MaxItems {
			items = items[:req.MaxItems]
		}
	}

	want := req.MinItems
	if !req.UseRealData {
		want = req.MaxItems
	}
	synthetic := 0
	if missing := want - len(items); missing > 0 && s.generator != nil {
		for _, item := range s.generator.Generate(req.Query, missing) {
			item.Text = textnorm.Normalize(item.Text)
			items = append(items, item)
			synthetic++
		}
	}

	if len(items) == 0 {
		return nil, errors.Wrapf(errors.ErrNoDataFound, "query %q", req.Query)
	}

	classified, err := s.classifier.ClassifyAll(ctx, items)
	if err != nil {
		return nil, errors.Wrap(err, "classify")
	}

	now := s.clock.Now().UTC()
	return s.buildReport(req, classified, statuses, synthetic, now), nil
}

func (s *Service) buildReport(req Request, items []sentiment.ClassifiedItem, statuses []aggregator.SourceStatus, synthetic int, now time.Time) *Report {
	overall := timeline.Overall(items)

	var buckets []sentiment.TimelineBucket
	if req.DenseTimeline {
		buckets = timeline.BucketizeDense(items, now, req.MaxBuckets)
	} else {
		buckets = timeline.Bucketize(items, now, req.MaxBuckets)
	}

	breakdown := timeline.Breakdown(items)
	platforms := make(map[string]int, len(breakdown))
	for platform, counts := range breakdown {
		platforms[platform] = counts.Total()
	}

	if statuses == nil {
		statuses = []aggregator.SourceStatus{}
	}

	return &Report{
		RunID:                 uuid.NewString(),
		Query:                 req.Query,
		TotalItems:            len(items),
		SyntheticItems:        synthetic,
		PositivePct:           overall.Positive,
		NegativePct:           overall.Negative,
		NeutralPct:            overall.Neutral,
		Timeline:              buckets,
		SampleItems:           samples(items, s.defaults.SampleSize, now),
		PlatformBreakdown:     platforms,
		SourceSentimentCounts: breakdown,
		Summary:               classifier.Summarize(items),
		Sources:               statuses,
		GeneratedAt:           now,
	}
}

// samples returns up to n display items; n <= 0 returns all
func samples(items []sentiment.ClassifiedItem, n int, now time.Time) []SampleItem {
	if n <= 0 || n > len(items) {
		n = len(items)
	}

	out := make([]SampleItem, 0, n)
	for _, item := range items[:n] {
		out = append(out, SampleItem{
			Text:       textnorm.Truncate(item.Text, sampleTextLength),
			Title:      item.Title,
			Platform:   item.Platform,
			Source:     item.Origin,
			User:       item.Author,
			URL:        item.URL,
			Sentiment:  item.Sentiment,
			Intensity:  item.Intensity,
			Confidence: item.Confidence,
			Categories: item.Categories,
			Engagement: item.Engagement,
			CreatedAt:  item.CreatedAt,
			CreatedAgo: humanize.RelTime(item.CreatedAt, now, "ago", "from now"),
			Synthetic:  item.Synthetic,
		})
	}
	return out
}

func (s *Service) lookup(ctx context.Context, req Request) *Report {
	if s.cache == nil {
		return nil
	}

	report, err := s.cache.Get(ctx, req)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warnw("Report cache lookup failed", "query", req.Query, "error", err)
		return nil
	case report == nil:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		report.Cached = true
		return report
	}
}

func (s *Service) store(ctx context.Context, req Request, report *Report) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, req, report); err != nil {
		s.log.Warnw("Report cache store failed", "query", req.Query, "error", err)
	}
}
