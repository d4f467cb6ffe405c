package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func eventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(MessageReceivedEvent{
		ID:         "msg-1",
		Name:       "Jo",
		Email:      "jo@example.com",
		Topic:      "Help",
		Status:     "new",
		ReceivedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestProcessDelivery_Acks(t *testing.T) {
	ack := &fakeAck{}
	var got MessageReceivedEvent
	processDelivery(1, eventBody(t), ack, func(e MessageReceivedEvent) error {
		got = e
		return nil
	})

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "msg-1", got.ID)
	assert.Equal(t, "jo@example.com", got.Email)
}

func TestProcessDelivery_RequeuesOnHandlerError(t *testing.T) {
	ack := &fakeAck{}
	processDelivery(2, eventBody(t), ack, func(MessageReceivedEvent) error {
		return errors.New("mailer down")
	})

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestProcessDelivery_DropsMalformedBody(t *testing.T) {
	ack := &fakeAck{}
	called := false
	processDelivery(3, []byte("{not json"), ack, func(MessageReceivedEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{}
	err := c.PublishMessageReceived(MessageReceivedEvent{ID: "x"})
	assert.Error(t, err)
	assert.Error(t, c.ConsumeMessageEvents(func(MessageReceivedEvent) error { return nil }))
	assert.NoError(t, c.Close())
}
