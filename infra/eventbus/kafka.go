//go:build kafka
// +build kafka

package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jeremi-ah/bankledger/pkg/domain/events"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
)

// envelope wraps an event with its type name for the wire.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// KafkaEventBus publishes ledger events to Kafka. It is publish-only: the
// ledger emits TransactionCommitted notifications for downstream consumers
// (reporting, reconciliation) and never subscribes to its own topics, so
// Register is a no-op.
type KafkaEventBus struct {
	writer      *kafka.Writer
	topicPrefix string
	logger      *slog.Logger
}

// NewWithKafka creates a Kafka-backed event bus.
// brokers is a comma-separated list, e.g. "localhost:9092,localhost:9093".
func NewWithKafka(brokers, topicPrefix string, logger *slog.Logger) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(topicPrefix) == "" {
		topicPrefix = "ledger.events"
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}

	bus := &KafkaEventBus{
		writer:      writer,
		topicPrefix: topicPrefix,
		logger:      logger.With("bus", "kafka"),
	}
	logger.Info("kafka event bus initialized",
		"brokers", parsed, "topic_prefix", topicPrefix)
	return bus, nil
}

// Register is a no-op; this bus only publishes.
func (b *KafkaEventBus) Register(string, eventbus.HandlerFunc) {}

// Emit publishes the event to its topic, keyed by event type so that all
// events of one type land on one partition in order.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: marshal failed: %w", err)
	}
	env, err := json.Marshal(envelope{Type: event.Type(), Payload: payload})
	if err != nil {
		return fmt.Errorf("kafka event bus: envelope marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topicNameFor(b.topicPrefix, event.Type()),
		Key:   []byte(event.Type()),
		Value: env,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (b *KafkaEventBus) Close() error {
	if b == nil || b.writer == nil {
		return nil
	}
	return b.writer.Close()
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func topicNameFor(prefix, eventType string) string {
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(eventType))
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
