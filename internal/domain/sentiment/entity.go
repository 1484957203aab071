package sentiment

import "time"

// Platform identifies the kind of external source an item came from
type Platform string

const (
	PlatformNews  Platform = "news"
	PlatformForum Platform = "forum"
	PlatformQnA   Platform = "qna"
	PlatformCode  Platform = "code"
)

// Label is a top-level sentiment group
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
	LabelCritical Label = "critical"
)

// Labels lists the sentiment groups in scoring order
var Labels = []Label{LabelPositive, LabelNegative, LabelNeutral, LabelCritical}

// Intensity buckets the total keyword hit count of an item
type Intensity string

const (
	IntensityNeutral  Intensity = "neutral"
	IntensityMild     Intensity = "mild"
	IntensityModerate Intensity = "moderate"
	IntensityStrong   Intensity = "strong"
)

// RawItem is one unit of ingested text as emitted by a source adapter.
// Items are passed by value and never mutated after emission.
type RawItem struct {
	Text       string    `json:"text"`
	Title      string    `json:"title,omitempty"`
	Platform   Platform  `json:"platform"`
	Origin     string    `json:"origin"` // feed name, r/<subreddit>, hackernews, github
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	Engagement *float64  `json:"engagement,omitempty"` // points, score, stars
	URL        string    `json:"url"`
	Synthetic  bool      `json:"synthetic,omitempty"`
}

// GroupScores maps each sentiment group to its subcategory hit counts
type GroupScores map[Label]map[string]int

// Total returns the number of keyword hits for one group
func (g GroupScores) Total(label Label) int {
	total := 0
	for _, n := range g[label] {
		total += n
	}
	return total
}

// Hits returns the number of keyword hits across all groups
func (g GroupScores) Hits() int {
	total := 0
	for _, label := range Labels {
		total += g.Total(label)
	}
	return total
}

// ClassifiedItem is a RawItem plus the classifier's verdict
type ClassifiedItem struct {
	RawItem
	Sentiment  Label          `json:"sentiment"`
	Intensity  Intensity      `json:"intensity"`
	Confidence float64        `json:"confidence"`
	Categories []string       `json:"categories"`
	Scores     GroupScores    `json:"sentiment_breakdown"`
	Context    map[string]int `json:"context"`
}

// Polarity folds the four-way label into the three-way view used by timelines and
// aggregate percentages; critical counts as neutral.
func (c ClassifiedItem) Polarity() Label {
	switch c.Sentiment {
	case LabelPositive, LabelNegative:
		return c.Sentiment
	default:
		return LabelNeutral
	}
}

// SentimentCounts holds three-way counts for one slice of the corpus
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add counts one item by polarity
func (c *SentimentCounts) Add(label Label) {
	switch label {
	case LabelPositive:
		c.Positive++
	case LabelNegative:
		c.Negative++
	default:
		c.Neutral++
	}
}

// Total returns the number of counted items
func (c SentimentCounts) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// Percentages are three-way shares in [0,100], rounded to one decimal
type Percentages struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// TimelineBucket is one hourly slot; Index 0 is the current hour
type TimelineBucket struct {
	Index int    `json:"index"`
	Label string `json:"time_label"`
	Count int    `json:"count"`
	Percentages
}

// SourceBreakdown maps a platform to its sentiment counts
type SourceBreakdown map[string]SentimentCounts
