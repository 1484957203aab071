package testsupport

import (
	"fmt"
	"os"
	"testing"

	"sentimental/internal/adapters/config"
)

// LoadRedisConfigFromEnv reads the Redis section for integration tests.
// The test is skipped when REDIS_HOST is not set.
func LoadRedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("integration environment missing, set REDIS_HOST to run")
	}

	return config.RedisConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     intValue("REDIS_PORT", 6379),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       intValue("REDIS_DB", 0),
	}
}

// LoadKafkaConfigFromEnv reads the Kafka section for integration tests.
// The test is skipped when KAFKA_BROKERS is not set.
func LoadKafkaConfigFromEnv(t *testing.T) config.KafkaConfig {
	t.Helper()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("integration environment missing, set KAFKA_BROKERS to run")
	}

	return config.KafkaConfig{
		Brokers: []string{brokers},
		Topic:   valueWithDefault("KAFKA_REPORTS_TOPIC", "sentiment.reports.test"),
	}
}

func valueWithDefault(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func intValue(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		_, err := fmt.Sscanf(val, "%d", &parsed)
		if err == nil {
			return parsed
		}
	}

	return fallback
}
