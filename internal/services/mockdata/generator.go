// Package mockdata synthesizes items when real sources return too little
package mockdata

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/domain/sentiment"
)

// Origin marks synthesized items
const Origin = "mock"

var templates = []string{
	"Great news about %s! This is really exciting.",
	"I'm not sure about %s. Need to see more data.",
	"%s is getting a lot of attention lately.",
	"Interesting developments with %s technology.",
	"People are really talking about %s these days.",
	"Mixed reactions to %s in the community.",
	"Positive feedback for %s implementation.",
	"Some concerns raised about %s approach.",
}

var platforms = []sentiment.Platform{
	sentiment.PlatformNews,
	sentiment.PlatformForum,
	sentiment.PlatformQnA,
	sentiment.PlatformCode,
}

// Generator is safe for concurrent use
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock clockwork.Clock
}

// NewGenerator returns a generator; equal seeds and clocks give equal output
func NewGenerator(seed int64, clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		clock: clock,
	}
}

// Generate returns count items about query, cycling through the platforms and
// stamped with the current time
func (g *Generator) Generate(query string, count int) []sentiment.RawItem {
	if count <= 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	created := g.clock.Now().UTC()

	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]sentiment.RawItem, 0, count)
	for i := 0; i < count; i++ {
		platform := platforms[i%len(platforms)]
		score := float64(g.rng.Intn(100) + 1)

		items = append(items, sentiment.RawItem{
			Text:       fmt.Sprintf(templates[g.rng.Intn(len(templates))], query),
			Platform:   platform,
			Origin:     Origin,
			Author:     fmt.Sprintf("user_%d", i),
			CreatedAt:  created,
			Engagement: &score,
			URL:        fmt.Sprintf("https://example.com/%s/post_%d", platform, i),
			Synthetic:  true,
		})
	}
	return items
}
