package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 33.3, Percent(1, 3))
	assert.Equal(t, 66.7, Percent(2, 3))
	assert.Equal(t, 100.0, Percent(4, 4))
	assert.Equal(t, 12.5, Percent(1, 8))
}

func TestPercentagesOf_SumsToHundred(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for pos := 0; pos <= total; pos++ {
			for neg := 0; neg <= total-pos; neg++ {
				p := PercentagesOf(SentimentCounts{Positive: pos, Negative: neg, Neutral: total - pos - neg})
				assert.InDelta(t, 100.0, p.Positive+p.Negative+p.Neutral, 0.1+1e-9)
			}
		}
	}
}

func TestPolarityFoldsCritical(t *testing.T) {
	assert.Equal(t, LabelNeutral, ClassifiedItem{Sentiment: LabelCritical}.Polarity())
	assert.Equal(t, LabelNegative, ClassifiedItem{Sentiment: LabelNegative}.Polarity())

	var c SentimentCounts
	c.Add(LabelPositive)
	c.Add(LabelCritical)
	c.Add(LabelNeutral)
	assert.Equal(t, SentimentCounts{Positive: 1, Neutral: 2}, c)
	assert.Equal(t, 3, c.Total())
}

func TestGroupScores(t *testing.T) {
	g := GroupScores{
		LabelPositive: {"enthusiastic": 2, "supportive": 1},
		LabelNegative: {"angry": 1},
	}
	assert.Equal(t, 3, g.Total(LabelPositive))
	assert.Equal(t, 0, g.Total(LabelCritical))
	assert.Equal(t, 4, g.Hits())
}
