package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultFeedURL is the USGS all-earthquakes past-month CSV feed.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Feed source. FeedPath wins over FeedURL when both are set.
	FeedURL     string
	FeedPath    string
	FeedTimeout time.Duration

	// Optional record export. Empty KafkaBrokers disables it.
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxCacheSize, err := parseMapboxCacheSize()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAPBOX_ENABLED %q", v)
		}
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "*")),

		FeedURL:     envOrDefault("FEED_URL", DefaultFeedURL),
		FeedPath:    os.Getenv("FEED_PATH"),
		FeedTimeout: feedTimeout,

		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "earthquake-records"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,
	}

	switch cfg.LogFormat {
	case "json", "text", "pretty":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json, text or pretty", cfg.LogFormat)
	}
	if cfg.FeedPath == "" && cfg.FeedURL == "" {
		return nil, errors.New("one of FEED_PATH or FEED_URL is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// ExportEnabled reports whether records should be published to Kafka after ingestion.
func (c *Config) ExportEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseMapboxCacheSize() (int, error) {
	s := os.Getenv("MAPBOX_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid MAPBOX_CACHE_SIZE %q", s)
	}
	return n, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
