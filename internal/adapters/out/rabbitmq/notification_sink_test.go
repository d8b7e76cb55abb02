package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (c *fakeChannel) PublishWithContext(
	_ context.Context, _, key string, _, _ bool, msg amqp.Publishing,
) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	return nil
}

func TestNotificationSink_Publish(t *testing.T) {
	chn := &fakeChannel{}
	sink := newNotificationSinkWithChannel(chn, "fulfillment.notifications")

	n := ports.Notification{
		Kind:        ports.NotificationOrderStatus,
		OrderID:     "6f1c2a9e-8f5d-4a7b-9e3c-2b1a0d9c8e7f",
		OrderNumber: 3001,
		Subject:     "Order #3001 delivered",
		Body:        "Left with reception.",
		At:          time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC),
	}

	require.NoError(t, sink.Publish(context.Background(), n))

	require.Len(t, chn.published, 1)
	assert.Equal(t, []string{"fulfillment.notifications"}, chn.keys)
	assert.Equal(t, "application/json", chn.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, chn.published[0].DeliveryMode)

	var decoded ports.Notification
	require.NoError(t, json.Unmarshal(chn.published[0].Body, &decoded))
	assert.Equal(t, n, decoded)
}

func TestNotificationSink_Publish_ChannelFailure(t *testing.T) {
	chn := &fakeChannel{err: errors.New("channel closed")}
	sink := newNotificationSinkWithChannel(chn, "fulfillment.notifications")

	err := sink.Publish(context.Background(), ports.Notification{Kind: ports.NotificationOperatorAlert})

	require.Error(t, err)
}
