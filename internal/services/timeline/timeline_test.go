package timeline

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimental/internal/domain/sentiment"
)

var now = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func item(label sentiment.Label, created time.Time) sentiment.ClassifiedItem {
	return sentiment.ClassifiedItem{
		RawItem:   sentiment.RawItem{CreatedAt: created, Platform: sentiment.PlatformNews},
		Sentiment: label,
	}
}

func TestHourIndex(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want int
		ok   bool
	}{
		{0, 0, true},
		{59 * time.Minute, 0, true},
		{time.Hour, 1, true},
		{90 * time.Minute, 1, true},
		{25 * time.Hour, 25, true},
		{-time.Minute, 0, false},
	}
	for _, tt := range tests {
		got, ok := HourIndex(now, now.Add(-tt.age))
		assert.Equal(t, tt.ok, ok, tt.age)
		assert.Equal(t, tt.want, got, tt.age)
	}
}

func TestBucketize_AllNow(t *testing.T) {
	items := []sentiment.ClassifiedItem{
		item(sentiment.LabelPositive, now),
		item(sentiment.LabelNegative, now),
		item(sentiment.LabelNeutral, now.Add(-10*time.Minute)),
	}

	got := Bucketize(items, now, 4)
	require.Len(t, got, 1)
	assert.Equal(t, "now", got[0].Label)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, 33.3, got[0].Positive)
}

func TestBucketize_SingleOldBucketLabeledNow(t *testing.T) {
	items := []sentiment.ClassifiedItem{item(sentiment.LabelPositive, now.Add(-5*time.Hour))}

	got := Bucketize(items, now, 4)
	require.Len(t, got, 1)
	assert.Equal(t, "now", got[0].Label)
	assert.Equal(t, 5, got[0].Index)
}

func TestBucketize_KeepsMostRecentHours(t *testing.T) {
	var items []sentiment.ClassifiedItem
	for _, h := range []int{7, 0, 2, 5, 3, 2} {
		items = append(items, item(sentiment.LabelPositive, now.Add(-time.Duration(h)*time.Hour)))
	}

	got := Bucketize(items, now, 4)
	labels := make([]string, len(got))
	for i, b := range got {
		labels[i] = b.Label
	}
	assert.Equal(t, []string{"now", "2h ago", "3h ago", "5h ago"}, labels)
	assert.Equal(t, 2, got[1].Count)
}

func TestBucketize_PercentagesSumToHundred(t *testing.T) {
	labels := []sentiment.Label{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral, sentiment.LabelCritical}
	var items []sentiment.ClassifiedItem
	for i := 0; i < 97; i++ {
		age := time.Duration(i%4) * time.Hour
		items = append(items, item(labels[(i*7)%len(labels)], now.Add(-age)))
	}

	for _, b := range Bucketize(items, now, 4) {
		assert.InDelta(t, 100.0, b.Positive+b.Negative+b.Neutral, 0.1+1e-9, b.Label)
	}
	for _, b := range BucketizeDense(items, now, 6) {
		assert.InDelta(t, 100.0, b.Positive+b.Negative+b.Neutral, 0.1+1e-9, b.Label)
	}
}

func TestBucketize_IgnoresFutureItems(t *testing.T) {
	items := []sentiment.ClassifiedItem{
		item(sentiment.LabelPositive, now.Add(2*time.Hour)),
		item(sentiment.LabelNegative, now.Add(-time.Hour)),
	}

	got := Bucketize(items, now, 4)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 100.0, got[0].Negative)
}

func TestBucketize_Empty(t *testing.T) {
	assert.Empty(t, Bucketize(nil, now, 4))
}

func TestBucketize_TimezoneIndependent(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	items := []sentiment.ClassifiedItem{
		item(sentiment.LabelPositive, now.Add(-30*time.Minute).In(tokyo)),
		item(sentiment.LabelNegative, now.Add(-90*time.Minute).In(newYork)),
		item(sentiment.LabelNeutral, now.Add(-150*time.Minute)),
	}

	utc := Bucketize(items, now, 4)
	shifted := Bucketize(items, now.In(tokyo), 4)
	require.Equal(t, utc, shifted)

	require.Len(t, utc, 3)
	assert.Equal(t, []string{"now", "1h ago", "2h ago"}, []string{utc[0].Label, utc[1].Label, utc[2].Label})
	assert.Equal(t, 100.0, utc[0].Positive)
	assert.Equal(t, 100.0, utc[1].Negative)
}

func TestBucketize_WithFakeClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(now)
	items := []sentiment.ClassifiedItem{item(sentiment.LabelPositive, clock.Now())}

	clock.Advance(61 * time.Minute)
	items = append(items, item(sentiment.LabelNegative, clock.Now()))

	got := Bucketize(items, clock.Now(), 4)
	require.Len(t, got, 2)
	assert.Equal(t, "now", got[0].Label)
	assert.Equal(t, 100.0, got[0].Negative)
	assert.Equal(t, "1h ago", got[1].Label)
	assert.Equal(t, 100.0, got[1].Positive)
}

func TestBucketizeDense_FillsGaps(t *testing.T) {
	items := []sentiment.ClassifiedItem{
		item(sentiment.LabelPositive, now),
		item(sentiment.LabelNegative, now.Add(-2*time.Hour)),
	}

	got := BucketizeDense(items, now, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "1h ago", got[1].Label)
	assert.Equal(t, 0, got[1].Count)
	assert.Equal(t, Overall(items), got[1].Percentages)
	assert.Equal(t, 50.0, got[1].Positive)
}

func TestOverallAndBreakdown(t *testing.T) {
	items := []sentiment.ClassifiedItem{
		item(sentiment.LabelPositive, now),
		item(sentiment.LabelCritical, now),
		item(sentiment.LabelNegative, now),
		{RawItem: sentiment.RawItem{Platform: sentiment.PlatformForum}, Sentiment: sentiment.LabelPositive},
	}

	o := Overall(items)
	assert.Equal(t, 50.0, o.Positive)
	assert.Equal(t, 25.0, o.Negative)
	assert.Equal(t, 25.0, o.Neutral)

	b := Breakdown(items)
	assert.Equal(t, sentiment.SentimentCounts{Positive: 1, Negative: 1, Neutral: 1}, b["news"])
	assert.Equal(t, sentiment.SentimentCounts{Positive: 1}, b["forum"])
}
