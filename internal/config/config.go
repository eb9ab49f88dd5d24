package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Refresh loop.
	RefreshInterval time.Duration
	HistoryHours    int

	// Constellation position upstream.
	ConstellationBaseURL string
	ConstellationTimeout time.Duration

	// Weather upstream.
	WeatherBaseURL     string
	WeatherTimeout     time.Duration
	WeatherMinInterval time.Duration
	WeatherConcurrency int

	// Core tuning knobs.
	MatchRadiusDeg float64
	PredictSteps   int

	// Kafka alert publishing configuration.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaAlertsTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	constellationTimeout, err := parseDuration("CONSTELLATION_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	weatherMinInterval, err := parseDuration("WEATHER_MIN_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}

	historyHours, err := parseInt("HISTORY_HOURS", 6, 1, 23)
	if err != nil {
		return nil, err
	}

	weatherConcurrency, err := parseInt("WEATHER_CONCURRENCY", 8, 1, 64)
	if err != nil {
		return nil, err
	}

	predictSteps, err := parseInt("PREDICT_STEPS", 20, 1, 500)
	if err != nil {
		return nil, err
	}

	matchRadius, err := parseFloat("MATCH_RADIUS_DEG", 5.0)
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshInterval: refreshInterval,
		HistoryHours:    historyHours,

		ConstellationBaseURL: envOrDefault("CONSTELLATION_BASE_URL", "https://a.windbornesystems.com/treasure"),
		ConstellationTimeout: constellationTimeout,

		WeatherBaseURL:     envOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1"),
		WeatherTimeout:     weatherTimeout,
		WeatherMinInterval: weatherMinInterval,
		WeatherConcurrency: weatherConcurrency,

		MatchRadiusDeg: matchRadius,
		PredictSteps:   predictSteps,

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     kafkaBrokers,
		KafkaAlertsTopic: envOrDefault("KAFKA_ALERTS_TOPIC", "balloon-danger-alerts"),
	}

	if cfg.ConstellationBaseURL == "" {
		return nil, errors.New("CONSTELLATION_BASE_URL is required")
	}
	if cfg.WeatherBaseURL == "" {
		return nil, errors.New("WEATHER_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaAlertsTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_ALERTS_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, def, min, max int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: %q (allowed %d-%d)", key, raw, min, max)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return f, nil
}

// parseBrokers splits a comma-separated broker list, trimming whitespace
// and dropping empty entries.
func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
