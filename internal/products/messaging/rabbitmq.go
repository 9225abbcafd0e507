package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"product-store/internal/products"

	amqp "github.com/rabbitmq/amqp091-go"
)

const contentTypeJSON = "application/json"

// EventPublisher emits product lifecycle events to a durable queue. Events
// are advisory: callers treat publish failures as non-fatal.
type EventPublisher struct {
	channel *amqp.Channel
	queue   string
}

func NewEventPublisher(conn *amqp.Connection, queue string) (*EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true, // durable
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	return &EventPublisher{
		channel: ch,
		queue:   queue,
	}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event products.ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Body:         payload,
		},
	); err != nil {
		return fmt.Errorf("publish to %q: %w", p.queue, err)
	}

	return nil
}

func (p *EventPublisher) Close() error {
	return p.channel.Close()
}
