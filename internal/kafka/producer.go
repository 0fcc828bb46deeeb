// Package kafka publishes trade events to the transactions topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/efreitasn/minisettle/internal/domain"
)

// Producer publishes trade events, keyed by instrument so one
// instrument's trades stay ordered on a single partition.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Producer writing to the given brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish writes one trade event. Failures are reported as
// domain.ErrPublishUnavailable so the outbox relay retries them.
func (p *Producer) Publish(ctx context.Context, ev domain.TradeEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Company),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishUnavailable, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// EnsureTopic attempts to create the topic (best-effort). Existing topics
// are fine; only the dial failure is worth surfacing in logs.
func EnsureTopic(ctx context.Context, broker, topic string, logger *slog.Logger) {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		logger.Warn("kafka dial failed", slog.String("broker", broker), slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug("create topic", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}
