// Package watch periodically re-analyzes a fixed set of queries and publishes the reports
package watch

import (
	"context"
	"strings"
	"time"

	"sentimental/internal/services/analysis"
	"sentimental/internal/workers"
	"sentimental/pkg/errors"
)

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
	Defaults() analysis.Defaults
}

// Publisher delivers a report downstream
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Worker analyzes each watched query once per interval.
// Queries run one after another so a cycle never multiplies the load on the sources.
type Worker struct {
	*workers.BaseWorker
	analyzer  Analyzer
	publisher Publisher
	topic     string
	queries   []string
}

// New creates a watch worker. A nil publisher still runs the analyses,
// which keeps the report cache warm.
func New(analyzer Analyzer, publisher Publisher, topic string, queries []string, interval time.Duration, enabled bool) *Worker {
	cleaned := make([]string, 0, len(queries))
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, q)
	}

	return &Worker{
		BaseWorker: workers.NewBaseWorker("sentiment_watch", interval, enabled),
		analyzer:   analyzer,
		publisher:  publisher,
		topic:      topic,
		queries:    cleaned,
	}
}

func (w *Worker) Queries() []string {
	return append([]string(nil), w.queries...)
}

// Run performs one cycle. Queries with no data are skipped; other failures
// are collected and returned together after every query has been tried.
func (w *Worker) Run(ctx context.Context) error {
	var errs errors.MultiError
	published := 0

	for _, query := range w.queries {
		if ctx.Err() != nil {
			errs.Add(ctx.Err())
			break
		}

		report, err := w.analyzer.Analyze(ctx, w.analyzer.Defaults().NewRequest(query))
		if errors.Is(err, errors.ErrNoDataFound) {
			w.Log().Infow("No data for watched query", "query", query)
			continue
		}
		if err != nil {
			errs.Add(errors.Wrapf(err, "analyze %q", query))
			continue
		}

		if w.publisher == nil {
			continue
		}
		if err := w.publisher.Publish(ctx, w.topic, query, report); err != nil {
			errs.Add(errors.Wrapf(err, "publish %q", query))
			continue
		}
		published++
	}

	w.Log().Infow("Watch cycle finished",
		"queries", len(w.queries),
		"published", published,
		"failed", len(errs.Errors),
	)

	return errs.ToError()
}
