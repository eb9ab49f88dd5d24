package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 6, cfg.HistoryHours)
	assert.Equal(t, "https://a.windbornesystems.com/treasure", cfg.ConstellationBaseURL)
	assert.Equal(t, 15*time.Second, cfg.ConstellationTimeout)
	assert.Equal(t, "https://api.open-meteo.com/v1", cfg.WeatherBaseURL)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, time.Second, cfg.WeatherMinInterval)
	assert.Equal(t, 8, cfg.WeatherConcurrency)
	assert.Equal(t, 5.0, cfg.MatchRadiusDeg)
	assert.Equal(t, 20, cfg.PredictSteps)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "balloon-danger-alerts", cfg.KafkaAlertsTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("HISTORY_HOURS", "12")
	t.Setenv("CONSTELLATION_BASE_URL", "http://localhost:8099/snapshots")
	t.Setenv("WEATHER_BASE_URL", "http://localhost:8099/weather")
	t.Setenv("WEATHER_MIN_INTERVAL", "250ms")
	t.Setenv("WEATHER_CONCURRENCY", "4")
	t.Setenv("MATCH_RADIUS_DEG", "2.5")
	t.Setenv("PREDICT_STEPS", "40")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_ALERTS_TOPIC", "custom-alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 12, cfg.HistoryHours)
	assert.Equal(t, "http://localhost:8099/snapshots", cfg.ConstellationBaseURL)
	assert.Equal(t, "http://localhost:8099/weather", cfg.WeatherBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.WeatherMinInterval)
	assert.Equal(t, 4, cfg.WeatherConcurrency)
	assert.Equal(t, 2.5, cfg.MatchRadiusDeg)
	assert.Equal(t, 40, cfg.PredictSteps)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-alerts", cfg.KafkaAlertsTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidHistoryHours(t *testing.T) {
	t.Setenv("HISTORY_HOURS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_HOURS")
}

func TestLoad_HistoryHoursTooLarge(t *testing.T) {
	t.Setenv("HISTORY_HOURS", "48")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_HOURS")
}

func TestLoad_InvalidMatchRadius(t *testing.T) {
	t.Setenv("MATCH_RADIUS_DEG", "-3")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_RADIUS_DEG")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers(" a:1 , b:2 "))
	assert.Empty(t, parseBrokers(" , "))
}
