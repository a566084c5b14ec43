package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/purpleair-aqi-service/internal/config"
	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
)

const publishBatchTimeout = 10 * time.Millisecond

// Writer produces converted AQI readings to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured readings topic.
// Publish runs inside a report request, so batches flush after a short
// timeout instead of kafka-go's one second default.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: publishBatchTimeout,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes all readings in a single WriteMessages call. Readings are
// keyed by sensor ID so one sensor's history stays on one partition.
func (w *Writer) Publish(ctx context.Context, readings []domain.AQIReading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(readings))
	for i := range readings {
		msg, err := serializeToMessage(readings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write aqi readings: %w", err)
	}
	w.logger.Debug("published aqi readings", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AQIReading into a Kafka message.
func serializeToMessage(r domain.AQIReading) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize aqi reading: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.SensorID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "field", Value: []byte(r.Field)},
			{Key: "severity", Value: []byte(r.Severity)},
			{Key: "observed_at", Value: []byte(r.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
