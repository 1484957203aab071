package classifier

import (
	"sentimental/internal/domain/sentiment"
)

// Summary aggregates classified items
type Summary struct {
	TotalItems             int                         `json:"total_items"`
	CategoryPercentages    map[string]float64          `json:"category_breakdown"`
	ContextTotals          map[string]int              `json:"context_analysis"`
	IntensityHistogram     map[sentiment.Intensity]int `json:"intensity_distribution"`
	PrimarySentimentCounts map[sentiment.Label]int     `json:"primary_sentiments"`
}

// Summarize computes category shares, context totals, the intensity histogram
// and primary sentiment counts. The counts in PrimarySentimentCounts and
// IntensityHistogram each sum to len(items).
func Summarize(items []sentiment.ClassifiedItem) Summary {
	s := Summary{
		TotalItems:             len(items),
		CategoryPercentages:    make(map[string]float64),
		ContextTotals:          make(map[string]int, len(contexts)),
		IntensityHistogram:     make(map[sentiment.Intensity]int),
		PrimarySentimentCounts: make(map[sentiment.Label]int, len(sentiment.Labels)),
	}

	for _, label := range sentiment.Labels {
		s.PrimarySentimentCounts[label] = 0
	}
	for _, tag := range ContextTags() {
		s.ContextTotals[tag] = 0
	}

	categoryCounts := make(map[string]int)
	for _, item := range items {
		for _, cat := range item.Categories {
			categoryCounts[cat]++
		}
		for tag, n := range item.Context {
			s.ContextTotals[tag] += n
		}
		s.IntensityHistogram[item.Intensity]++
		s.PrimarySentimentCounts[item.Sentiment]++
	}

	for cat, n := range categoryCounts {
		s.CategoryPercentages[cat] = sentiment.Percent(n, len(items))
	}
	return s
}
