package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimental/internal/testsupport"
)

func TestProducer_WriterPerTopic(t *testing.T) {
	p := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})

	w1 := p.getWriter(TopicSentimentReports)
	w2 := p.getWriter(TopicSentimentReports)
	w3 := p.getWriter("other")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, 10*time.Second, w1.WriteTimeout)
	assert.NoError(t, p.Close())
}

func TestProducer_PublishIntegration(t *testing.T) {
	cfg := testsupport.LoadKafkaConfigFromEnv(t)
	p := NewProducer(ProducerConfig{Brokers: cfg.Brokers})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := p.Publish(ctx, cfg.Topic, "golang", map[string]interface{}{"query": "golang", "total_items": 3})
	require.NoError(t, err)
}
