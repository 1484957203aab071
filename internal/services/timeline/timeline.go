// Package timeline groups classified items into hourly buckets relative to a
// reference instant. All arithmetic is on absolute instants, so the result does
// not depend on the time zone of either the items or now.
package timeline

import (
	"fmt"
	"slices"
	"time"

	"sentimental/internal/domain/sentiment"
)

// DefaultMaxBuckets is the number of hourly buckets kept when the caller passes none
const DefaultMaxBuckets = 4

// HourIndex returns floor((now - created) / 1h) and false for items dated after now
func HourIndex(now, created time.Time) (int, bool) {
	d := now.Sub(created)
	if d < 0 {
		return 0, false
	}
	return int(d / time.Hour), true
}

// Label renders a bucket index: "now" for 0, "<n>h ago" otherwise
func Label(index int) string {
	if index == 0 {
		return "now"
	}
	return fmt.Sprintf("%dh ago", index)
}

// Bucketize keeps the maxBuckets most recent non-empty hours, ascending by age.
// When only one bucket results it is labeled "now" whatever its age.
func Bucketize(items []sentiment.ClassifiedItem, now time.Time, maxBuckets int) []sentiment.TimelineBucket {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}

	counts := groupByHour(items, now)
	if len(counts) == 0 {
		return []sentiment.TimelineBucket{}
	}

	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	if len(hours) > maxBuckets {
		hours = hours[:maxBuckets]
	}

	overall := Overall(items)
	out := make([]sentiment.TimelineBucket, 0, len(hours))
	for _, h := range hours {
		out = append(out, bucket(h, counts[h], overall))
	}

	if len(out) == 1 {
		out[0].Label = Label(0)
	}
	return out
}

// BucketizeDense emits every hour from 0 to maxBuckets-1; hours without items
// carry the corpus-wide percentages and a zero count.
func BucketizeDense(items []sentiment.ClassifiedItem, now time.Time, maxBuckets int) []sentiment.TimelineBucket {
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}

	counts := groupByHour(items, now)
	overall := Overall(items)

	out := make([]sentiment.TimelineBucket, 0, maxBuckets)
	for h := 0; h < maxBuckets; h++ {
		out = append(out, bucket(h, counts[h], overall))
	}
	return out
}

// Overall returns the three-way shares of the whole corpus
func Overall(items []sentiment.ClassifiedItem) sentiment.Percentages {
	var c sentiment.SentimentCounts
	for _, item := range items {
		c.Add(item.Polarity())
	}
	return sentiment.PercentagesOf(c)
}

// Breakdown counts items per platform
func Breakdown(items []sentiment.ClassifiedItem) sentiment.SourceBreakdown {
	out := make(sentiment.SourceBreakdown)
	for _, item := range items {
		key := string(item.Platform)
		if key == "" {
			key = "unknown"
		}
		c := out[key]
		c.Add(item.Polarity())
		out[key] = c
	}
	return out
}

func groupByHour(items []sentiment.ClassifiedItem, now time.Time) map[int]sentiment.SentimentCounts {
	counts := make(map[int]sentiment.SentimentCounts)
	for _, item := range items {
		h, ok := HourIndex(now, item.CreatedAt)
		if !ok {
			continue
		}
		c := counts[h]
		c.Add(item.Polarity())
		counts[h] = c
	}
	return counts
}

func bucket(index int, counts sentiment.SentimentCounts, fallback sentiment.Percentages) sentiment.TimelineBucket {
	b := sentiment.TimelineBucket{
		Index: index,
		Label: Label(index),
		Count: counts.Total(),
	}
	if b.Count == 0 {
		b.Percentages = fallback
	} else {
		b.Percentages = sentiment.PercentagesOf(counts)
	}
	return b
}
