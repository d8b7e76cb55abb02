// Package rabbitmq publishes customer and operator notifications to a
// RabbitMQ queue. Publishing is fire-and-forget from the command side: a
// failed publish is logged by the caller and never fails the command.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"fulfillment/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the subset of amqp.Channel the sink needs, so tests can inject
// a fake.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// NotificationSink implements ports.NotificationSink over a RabbitMQ queue.
// All notification kinds share one durable queue; consumers route on the
// Kind field of the payload.
type NotificationSink struct {
	conn  *amqp.Connection
	chn   channel
	queue string
}

// NewNotificationSink dials the broker, opens a channel, and declares the
// durable notification queue.
func NewNotificationSink(url, queue string) (*NotificationSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = chn.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		chn.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &NotificationSink{conn: conn, chn: chn, queue: queue}, nil
}

// newNotificationSinkWithChannel allows injecting a test channel.
func newNotificationSinkWithChannel(chn channel, queue string) *NotificationSink {
	return &NotificationSink{chn: chn, queue: queue}
}

// Publish marshals the notification to JSON and publishes one persistent
// message to the queue.
func (s *NotificationSink) Publish(ctx context.Context, n ports.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return s.chn.PublishWithContext(
		ctx,
		"",      // default exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Close closes the channel and connection.
func (s *NotificationSink) Close() error {
	if err := s.chn.Close(); err != nil {
		return err
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
