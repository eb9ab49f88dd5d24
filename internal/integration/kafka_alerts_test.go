//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/balloon-tracker/internal/adapter/kafka"
	"github.com/couchcryptid/balloon-tracker/internal/config"
	"github.com/couchcryptid/balloon-tracker/internal/domain"
)

const testAlertsTopic = "test-balloon-alerts"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka broker in a container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve bootstrap brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a topic via the controller broker so that producers do
// not depend on auto topic creation.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// readAlert reads a single message from the consumer and deserializes it.
func readAlert(ctx context.Context, t *testing.T, consumer *kafkago.Reader) (domain.BalloonAlert, map[string]string) {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alerts topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var alert domain.BalloonAlert
	require.NoError(t, json.Unmarshal(msg.Value, &alert), "unmarshal alert message")
	require.Equal(t, alert.BalloonID, string(msg.Key), "messages are keyed by balloon id")
	return alert, headers
}

// TestAlertsRoundTrip verifies that kafka.Writer publishes danger alerts that a
// plain consumer can read back with headers and payload intact.
func TestAlertsRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertsTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaAlertsTopic: testAlertsTopic,
	}

	observedAt := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	alerts := []domain.BalloonAlert{
		{
			BalloonID: "b-3",
			Position:  domain.Position{Lat: 71.2, Lon: -8.5, Alt: 9.1, Timestamp: observedAt},
			Weather: domain.WeatherSample{
				Temperature: -41.5,
				Pressure:    310.0,
				Description: "Clear",
			},
			Verdict:    domain.DangerVerdict{Dangerous: true, Reason: "Extreme cold temperature: -41.5°C"},
			Location:   domain.DangerVerdict{Dangerous: true, Reason: "Polar region at high altitude: 9.1 km"},
			ObservedAt: observedAt,
		},
		{
			BalloonID: "b-7",
			Position:  domain.Position{Lat: 35.0, Lon: 139.0, Alt: 5.2, Timestamp: observedAt},
			Weather: domain.WeatherSample{
				Temperature: 18.0,
				Pressure:    1008.0,
				Wind:        &domain.Wind{Speed: 27.5, DirectionDeg: 210.0},
				Description: "Rain",
			},
			Verdict:    domain.DangerVerdict{Dangerous: true, Reason: "High wind speeds"},
			ObservedAt: observedAt,
		},
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishAlerts(ctx, alerts))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertsTopic,
		GroupID:     fmt.Sprintf("test-alerts-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]domain.BalloonAlert, len(alerts))
	var headersByID = make(map[string]map[string]string, len(alerts))
	for len(received) < len(alerts) {
		alert, headers := readAlert(ctx, t, consumer)
		received[alert.BalloonID] = alert
		headersByID[alert.BalloonID] = headers
	}

	polar, ok := received["b-3"]
	require.True(t, ok, "expected alert for b-3")
	assert.Equal(t, -41.5, polar.Weather.Temperature)
	assert.True(t, polar.Verdict.Dangerous)
	assert.Equal(t, "Extreme cold temperature: -41.5°C", polar.Verdict.Reason)
	assert.True(t, polar.Location.Dangerous)
	assert.Nil(t, polar.Weather.Wind)
	assert.Equal(t, "true", headersByID["b-3"]["dangerous"])
	assert.Equal(t, observedAt.Format(time.RFC3339), headersByID["b-3"]["observed_at"])

	windy, ok := received["b-7"]
	require.True(t, ok, "expected alert for b-7")
	assert.Equal(t, "High wind speeds", windy.Verdict.Reason)
	assert.False(t, windy.Location.Dangerous)
	require.NotNil(t, windy.Weather.Wind)
	assert.Equal(t, 27.5, windy.Weather.Wind.Speed)
	assert.Equal(t, "true", headersByID["b-7"]["dangerous"])
}

// TestAlertsEmptyBatch verifies that publishing an empty batch makes no broker
// round trip and succeeds even before the topic exists.
func TestAlertsEmptyBatch(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:     []string{"localhost:1"},
		KafkaAlertsTopic: "never-created",
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishAlerts(context.Background(), nil))
}
