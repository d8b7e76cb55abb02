// Package kafka hands delivered-order invoice jobs to the accounting
// pipeline over a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"

	"fulfillment/internal/core/ports"

	skafka "github.com/segmentio/kafka-go"
)

// Writer defines the subset of the segmentio kafka.Writer the sink needs,
// so tests can inject a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// AccountingSink implements ports.AccountingJobSink over a Kafka topic.
// Messages are keyed by order ID so retries of the same order land on the
// same partition in submission order.
type AccountingSink struct {
	writer Writer
}

// NewAccountingSink creates a sink writing to the given broker and topic.
func NewAccountingSink(brokerURL, topic string) *AccountingSink {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokerURL),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &AccountingSink{writer: w}
}

// NewAccountingSinkWithWriter allows injecting a test writer.
func NewAccountingSinkWithWriter(w Writer) *AccountingSink {
	return &AccountingSink{writer: w}
}

// Enqueue marshals the job to JSON and writes one message keyed by order ID.
func (s *AccountingSink) Enqueue(ctx context.Context, job ports.AccountingJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, skafka.Message{
		Key:   []byte(job.OrderID),
		Value: body,
	})
}

// Close closes the underlying writer.
func (s *AccountingSink) Close() error {
	return s.writer.Close()
}
