// Package kafka publishes order events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tindahan/internal/events"
)

const DefaultTopic = "orders_placed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// PublishOrderPlaced keys the message by order id so events of one order
// land on the same partition.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, e events.OrderPlaced) error {
	data, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(e.MessageID)},
			{Key: "type", Value: []byte(e.Type)},
		},
		Time: e.PlacedAt,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}

	slog.DebugContext(ctx, "Published order event to Kafka",
		"order_id", e.OrderID,
		"topic", p.topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
