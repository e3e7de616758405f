package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaCrisisTopic string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Upstream weather data source.
	WeatherAPIURL      string
	WeatherAPITimeout  time.Duration
	FeedCacheSize      int
	FeedCachePrecision uint

	// Crisis notification fan-out.
	RedisURL        string
	CrisisDedupeTTL time.Duration
	SNSTopicARN     string
	AWSRegion       string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_API_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	dedupeTTL, err := parsePositiveDuration("CRISIS_DEDUPE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	precision, err := parseCachePrecision()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-forecast-feeds"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "daily-forecast-digests"),
		KafkaCrisisTopic:   sharedcfg.EnvOrDefault("KAFKA_CRISIS_TOPIC", "crisis-alerts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "forecast-digest"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		WeatherAPIURL:      sharedcfg.EnvOrDefault("WEATHER_API_URL", "http://localhost:5000"),
		WeatherAPITimeout:  weatherTimeout,
		FeedCacheSize:      parseFeedCacheSize(),
		FeedCachePrecision: precision,

		RedisURL:        os.Getenv("REDIS_URL"),
		CrisisDedupeTTL: dedupeTTL,
		SNSTopicARN:     os.Getenv("SNS_TOPIC_ARN"),
		AWSRegion:       sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaCrisisTopic == "" {
		return nil, errors.New("KAFKA_CRISIS_TOPIC is required")
	}
	if cfg.WeatherAPIURL == "" {
		return nil, errors.New("WEATHER_API_URL is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFeedCacheSize() int {
	if s := os.Getenv("FEED_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// parseCachePrecision reads the geohash length used for feed cache keys.
// Five characters is roughly a 5km cell.
func parseCachePrecision() (uint, error) {
	s := sharedcfg.EnvOrDefault("FEED_CACHE_PRECISION", "5")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, errors.New("invalid FEED_CACHE_PRECISION: must be 1-12")
	}
	return uint(n), nil
}
