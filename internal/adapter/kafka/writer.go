package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/balloon-tracker/internal/config"
	"github.com/couchcryptid/balloon-tracker/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces danger alerts to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alerts topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishAlerts serializes and publishes multiple alerts in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishAlerts(ctx context.Context, alerts []domain.BalloonAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeToMessage(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a BalloonAlert into a Kafka message. Messages
// are keyed by balloon id so alerts for one balloon stay in partition order.
func serializeToMessage(alert domain.BalloonAlert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize balloon alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.BalloonID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dangerous", Value: []byte(fmt.Sprintf("%t", alert.Verdict.Dangerous || alert.Location.Dangerous))},
			{Key: "observed_at", Value: []byte(alert.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
