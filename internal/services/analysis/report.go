package analysis

import (
	"strings"
	"time"

	"sentimental/internal/domain/sentiment"
	"sentimental/internal/services/aggregator"
	"sentimental/internal/services/classifier"
)

// Request describes one analysis run. Zero-valued numeric fields take the
// service defaults.
type Request struct {
	Query          string `json:"query"`
	PerSourceLimit int    `json:"per_source_limit,omitempty"`
	MaxItems       int    `json:"max_items,omitempty"`
	MinItems       int    `json:"min_items,omitempty"`
	UseRealData    bool   `json:"use_real_data"`
	MaxBuckets     int    `json:"max_buckets,omitempty"`
	DenseTimeline  bool   `json:"dense_timeline,omitempty"`
}

// Defaults fill unset Request fields
type Defaults struct {
	PerSourceLimit int
	MaxItems       int
	MinItems       int
	MaxBuckets     int
	SampleSize     int
	FetchDeadline  time.Duration
	UseRealData    bool
}

// NewRequest returns a request for query carrying the default data mode
func (d Defaults) NewRequest(query string) Request {
	return Request{Query: query, UseRealData: d.UseRealData}
}

func (d Defaults) apply(req Request) Request {
	req.Query = strings.TrimSpace(req.Query)
	if req.PerSourceLimit <= 0 {
		req.PerSourceLimit = d.PerSourceLimit
	}
	if req.MaxItems <= 0 {
		req.MaxItems = d.MaxItems
	}
	if req.MinItems <= 0 {
		req.MinItems = d.MinItems
	}
	if req.MinItems > req.MaxItems {
		req.MinItems = req.MaxItems
	}
	if req.MaxBuckets <= 0 {
		req.MaxBuckets = d.MaxBuckets
	}
	return req
}

// SampleItem is a display-ready classified item
type SampleItem struct {
	Text       string              `json:"text"`
	Title      string              `json:"title,omitempty"`
	Platform   sentiment.Platform  `json:"platform"`
	Source     string              `json:"source"`
	User       string              `json:"user"`
	URL        string              `json:"url"`
	Sentiment  sentiment.Label     `json:"sentiment"`
	Intensity  sentiment.Intensity `json:"intensity"`
	Confidence float64             `json:"confidence"`
	Categories []string            `json:"categories"`
	Engagement *float64            `json:"engagement,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	CreatedAgo string              `json:"created_ago"`
	Synthetic  bool                `json:"synthetic,omitempty"`
}

// Report is the result of one analysis run
type Report struct {
	RunID                 string                     `json:"run_id"`
	Query                 string                     `json:"query"`
	TotalItems            int                        `json:"total_items"`
	SyntheticItems        int                        `json:"synthetic_items"`
	PositivePct           float64                    `json:"positive_percentage"`
	NegativePct           float64                    `json:"negative_percentage"`
	NeutralPct            float64                    `json:"neutral_percentage"`
	Timeline              []sentiment.TimelineBucket `json:"timeline"`
	SampleItems           []SampleItem               `json:"sample_items"`
	PlatformBreakdown     map[string]int             `json:"platform_breakdown"`
	SourceSentimentCounts sentiment.SourceBreakdown  `json:"source_sentiment_counts"`
	Summary               classifier.Summary         `json:"summary"`
	Sources               []aggregator.SourceStatus  `json:"sources"`
	GeneratedAt           time.Time                  `json:"generated_at"`
	Cached                bool                       `json:"cached"`
}
