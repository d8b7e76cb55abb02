package ports

import (
	"context"
	"time"
)

// AccountingJob is the invoice payload enqueued when an order is delivered.
// Amounts are in cents. Attempt counts retries by the accounting worker.
type AccountingJob struct {
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	CustomerID  string    `json:"customerId"`
	Subtotal    int64     `json:"subtotal"`
	Tax         int64     `json:"tax"`
	Total       int64     `json:"total"`
	DeliveredAt time.Time `json:"deliveredAt"`
	Attempt     int       `json:"attempt"`
}

// AccountingJobSink hands delivered-order invoices to the accounting
// pipeline. Enqueue failures never roll back the delivery; the caller
// records the job for the retry worker instead.
type AccountingJobSink interface {
	Enqueue(ctx context.Context, job AccountingJob) error
}

// Notification is a customer-facing or operator-facing message. Kind selects
// the routing key; the remaining fields fill the message body.
type Notification struct {
	Kind        string    `json:"kind"`
	OrderID     string    `json:"orderId,omitempty"`
	OrderNumber int64     `json:"orderNumber,omitempty"`
	CustomerID  string    `json:"customerId,omitempty"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	At          time.Time `json:"at"`
}

// Notification kinds.
const (
	NotificationOrderStatus       = "order.status"
	NotificationBackorderPending  = "backorder.pending"
	NotificationBackorderResolved = "backorder.resolved"
	NotificationOperatorAlert     = "operator.alert"
	NotificationLowStockDigest    = "stock.low_digest"
)

// NotificationSink publishes notifications. Status-change notifications are
// sent after the owning transaction commits; a publish failure is logged and
// never fails the command.
type NotificationSink interface {
	Publish(ctx context.Context, n Notification) error
}
