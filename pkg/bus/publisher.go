package bus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/dmehra2102/warehouse-simulator/pkg/tracing"
)

// Publisher is the outbound side of the message bus. Publish may fail;
// callers are expected to log and continue, the bus itself provides
// at-least-once delivery only after a write is acknowledged.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher marshals payloads to JSON and writes them keyed, so the
// broker preserves ordering per key (order id or SKU).
type KafkaPublisher struct {
	log    *slog.Logger
	writer Writer
}

func NewKafkaPublisher(log *slog.Logger, writer Writer) *KafkaPublisher {
	return &KafkaPublisher{log: log, writer: writer}
}

func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   value,
		Headers: tracing.InjectKafkaHeaders(ctx, nil),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("publish failed", "topic", topic, "key", key, "err", err)
		return err
	}
	p.log.Debug("published", "topic", topic, "key", key)
	return nil
}
