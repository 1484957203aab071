// Package classifier scores text against fixed keyword tables.
//
// Each keyword counts once when it occurs anywhere in the lowercased text,
// substrings included ("content" matches "discontent"). The primary sentiment
// is the group with the most hits; ties go to the group listed first and text
// with no hits is neutral.
package classifier

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"sentimental/internal/domain/sentiment"
	"sentimental/internal/metrics"
)

const chunkSize = 64

// Analysis is the verdict for one text
type Analysis struct {
	Sentiment  sentiment.Label
	Intensity  sentiment.Intensity
	Confidence float64
	Categories []string
	Scores     sentiment.GroupScores
	Context    map[string]int
}

// Classifier is stateless; one instance may be shared by any number of goroutines
type Classifier struct {
	workers int
}

// New returns a classifier whose ClassifyAll uses up to workers goroutines
func New(workers int) *Classifier {
	if workers < 1 {
		workers = 1
	}
	return &Classifier{workers: workers}
}

// Classify scores text. It never fails; empty text is neutral with zero confidence.
func (c *Classifier) Classify(text string) Analysis {
	lower := strings.ToLower(text)

	scores := make(sentiment.GroupScores, len(groups))
	for _, g := range groups {
		subs := make(map[string]int, len(g.subs))
		for _, sub := range g.subs {
			subs[sub.name] = countHits(lower, sub.words)
		}
		scores[g.label] = subs
	}

	ctxScores := make(map[string]int, len(contexts))
	for _, cg := range contexts {
		ctxScores[cg.tag] = countHits(lower, cg.indicators)
	}

	primary := primarySentiment(scores)
	hits := scores.Hits()

	return Analysis{
		Sentiment:  primary,
		Intensity:  intensityFor(hits),
		Confidence: confidence(hits, len(strings.Fields(text))),
		Categories: categories(primary, scores, ctxScores),
		Scores:     scores,
		Context:    ctxScores,
	}
}

// ClassifyItem attaches the verdict for item's text
func (c *Classifier) ClassifyItem(item sentiment.RawItem) sentiment.ClassifiedItem {
	a := c.Classify(item.Text)
	return sentiment.ClassifiedItem{
		RawItem:    item,
		Sentiment:  a.Sentiment,
		Intensity:  a.Intensity,
		Confidence: a.Confidence,
		Categories: a.Categories,
		Scores:     a.Scores,
		Context:    a.Context,
	}
}

// ClassifyAll classifies items in parallel chunks; out[i] corresponds to items[i].
// It stops early and returns ctx's error if ctx is cancelled.
func (c *Classifier) ClassifyAll(ctx context.Context, items []sentiment.RawItem) ([]sentiment.ClassifiedItem, error) {
	out := make([]sentiment.ClassifiedItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = c.ClassifyItem(items[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, item := range out {
		metrics.ClassifiedItems.WithLabelValues(string(item.Sentiment)).Inc()
	}
	return out, nil
}

func countHits(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func primarySentiment(scores sentiment.GroupScores) sentiment.Label {
	best := sentiment.LabelNeutral
	bestScore := 0
	for _, g := range groups {
		if total := scores.Total(g.label); total > bestScore {
			best, bestScore = g.label, total
		}
	}
	return best
}

func intensityFor(hits int) sentiment.Intensity {
	switch {
	case hits == 0:
		return sentiment.IntensityNeutral
	case hits <= 2:
		return sentiment.IntensityMild
	case hits <= 5:
		return sentiment.IntensityModerate
	default:
		return sentiment.IntensityStrong
	}
}

func confidence(hits, words int) float64 {
	if hits == 0 {
		return 0
	}
	return min(1.0, float64(hits)/float64(max(words, 1)))
}

func categories(primary sentiment.Label, scores sentiment.GroupScores, ctxScores map[string]int) []string {
	out := []string{string(primary)}
	for _, g := range groups {
		for _, sub := range g.subs {
			if scores[g.label][sub.name] > 0 {
				out = append(out, string(g.label)+"_"+sub.name)
			}
		}
	}
	for _, cg := range contexts {
		if ctxScores[cg.tag] > 0 {
			out = append(out, "context_"+cg.tag)
		}
	}
	return out
}
