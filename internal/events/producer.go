// Package events publishes storefront domain events to Kafka. The producer
// is optional: with no brokers configured every publish is a no-op, and a
// failed delivery is logged, never surfaced to the caller.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicCart     = "cart_events"
	TopicOrders   = "order_events"
	TopicProducts = "product_events"

	publishTimeout = 5 * time.Second
)

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(brokers []string, log *slog.Logger) *Producer {
	p := &Producer{log: log}
	if len(brokers) == 0 {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return p
}

type envelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	At      string `json:"at"`
	Payload any    `json:"payload,omitempty"`
}

func (p *Producer) Publish(ctx context.Context, topic, key, eventType string, payload any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(envelope{
		ID:      uuid.NewString(),
		Type:    eventType,
		At:      time.Now().UTC().Format(time.RFC3339),
		Payload: payload,
	})
	if err != nil {
		p.log.Error("event_marshal_failed", "topic", topic, "type", eventType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		p.log.Error("event_publish_failed", "topic", topic, "type", eventType, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
