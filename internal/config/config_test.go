package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testTopicARN  = "arn:aws:sns:us-east-1:123456789012:crisis"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-forecast-feeds", cfg.KafkaSourceTopic)
	assert.Equal(t, "daily-forecast-digests", cfg.KafkaSinkTopic)
	assert.Equal(t, "crisis-alerts", cfg.KafkaCrisisTopic)
	assert.Equal(t, "forecast-digest", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, "http://localhost:5000", cfg.WeatherAPIURL)
	assert.Equal(t, 5*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, 1000, cfg.FeedCacheSize)
	assert.Equal(t, uint(5), cfg.FeedCachePrecision)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.CrisisDedupeTTL)
	assert.Empty(t, cfg.SNSTopicARN)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_CRISIS_TOPIC", "custom-crisis")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("WEATHER_API_URL", "https://weather.internal")
	t.Setenv("WEATHER_API_TIMEOUT", "2s")
	t.Setenv("FEED_CACHE_SIZE", "250")
	t.Setenv("FEED_CACHE_PRECISION", "7")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CRISIS_DEDUPE_TTL", "6h")
	t.Setenv("SNS_TOPIC_ARN", testTopicARN)
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-crisis", cfg.KafkaCrisisTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "https://weather.internal", cfg.WeatherAPIURL)
	assert.Equal(t, 2*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, 250, cfg.FeedCacheSize)
	assert.Equal(t, uint(7), cfg.FeedCachePrecision)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 6*time.Hour, cfg.CrisisDedupeTTL)
	assert.Equal(t, testTopicARN, cfg.SNSTopicARN)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidWeatherAPITimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-1s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("WEATHER_API_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "WEATHER_API_TIMEOUT")
		})
	}
}

func TestLoad_InvalidCrisisDedupeTTL(t *testing.T) {
	t.Setenv("CRISIS_DEDUPE_TTL", "forever")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRISIS_DEDUPE_TTL")
}

func TestLoad_InvalidCachePrecision(t *testing.T) {
	for _, v := range []string{"0", "13", "abc"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FEED_CACHE_PRECISION", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FEED_CACHE_PRECISION")
		})
	}
}

func TestLoad_InvalidFeedCacheSizeFallsBack(t *testing.T) {
	t.Setenv("FEED_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.FeedCacheSize)
}
