// Package service holds the application services that sit between the
// configurator and the external collaborators.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/vehicle-configurator/internal/queue"
)

// QueuePublisher publishes domain events to a durable RabbitMQ queue.  It
// dials per publish; lead volume is low and this keeps no connection state.
type QueuePublisher struct {
	URL   string
	Queue string
}

func NewQueuePublisher(url, queueName string) *QueuePublisher {
	return &QueuePublisher{URL: url, Queue: queueName}
}

// PublishConfigurationFinished sends ev as a persistent JSON message.
func (p *QueuePublisher) PublishConfigurationFinished(ctx context.Context, ev queue.ConfigurationFinishedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.LeadID,
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
