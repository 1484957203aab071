package testsupport

import "testing"

func TestLoadRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadRedisConfigFromEnv(t)

	if cfg.Host != "redis" || cfg.Port != 6380 || cfg.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg)
	}
}

func TestLoadKafkaConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("KAFKA_REPORTS_TOPIC", "")

	cfg := LoadKafkaConfigFromEnv(t)

	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "kafka:9092" {
		t.Fatalf("unexpected kafka brokers %v", cfg.Brokers)
	}
	if cfg.Topic != "sentiment.reports.test" {
		t.Fatalf("unexpected kafka topic %s", cfg.Topic)
	}
}

func TestIntValueFallback(t *testing.T) {
	t.Setenv("SOME_PORT", "not-a-number")
	if got := intValue("SOME_PORT", 42); got != 42 {
		t.Fatalf("expected fallback, got %d", got)
	}
}
