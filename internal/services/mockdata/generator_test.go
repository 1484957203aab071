package mockdata

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimental/internal/domain/sentiment"
)

func TestGenerate(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(7, clockwork.NewFakeClockAt(at))

	items := g.Generate("golang", 9)
	require.Len(t, items, 9)

	for i, item := range items {
		assert.Contains(t, item.Text, "golang")
		assert.True(t, item.Synthetic)
		assert.Equal(t, Origin, item.Origin)
		assert.Equal(t, at, item.CreatedAt)
		assert.Equal(t, platforms[i%4], item.Platform)
		require.NotNil(t, item.Engagement)
		assert.GreaterOrEqual(t, *item.Engagement, 1.0)
		assert.LessOrEqual(t, *item.Engagement, 100.0)
		assert.True(t, strings.HasPrefix(item.URL, "https://example.com/"+string(item.Platform)+"/post_"))
	}
	assert.Equal(t, "user_0", items[0].Author)
	assert.Equal(t, sentiment.PlatformCode, items[3].Platform)
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := NewGenerator(42, clock).Generate("rust", 20)
	b := NewGenerator(42, clock).Generate("rust", 20)
	assert.Equal(t, a, b)
}

func TestGenerate_NonPositiveCount(t *testing.T) {
	g := NewGenerator(1, nil)
	assert.Nil(t, g.Generate("x", 0))
	assert.Nil(t, g.Generate("x", -3))
}
