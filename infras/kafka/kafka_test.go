package kafka_test

import (
	"context"
	"testing"

	"hotel/config"
	"hotel/infras/kafka"
	otelMocks "hotel/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key: "booking-1",
		Value: map[string]any{
			"booking_id": "booking-1",
			"status":     "checked_in",
		},
		Headers: map[string]string{"event": "booking.checked_in"},
	}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)

	assert.Equal(t, []byte("booking-1"), out.Key)
	assert.JSONEq(t, `{"booking_id":"booking-1","status":"checked_in"}`, string(out.Value))
	require.Len(t, out.Headers, 1)
	assert.Equal(t, "event", out.Headers[0].Key)
	assert.Equal(t, []byte("booking.checked_in"), out.Headers[0].Value)
}

func TestMessage_ToKafkaMessage_Unencodable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestClient_SendAfterClose(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client := kafka.New(cfg, otelMocks.NewOtel())
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	err := client.SendMessages(context.Background(), "hotel.booking.events", kafka.Message{Key: "k", Value: "v"})
	assert.ErrorIs(t, err, kafka.ErrClosed)
}

func TestClient_SendRejectsUnencodable(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client := kafka.New(cfg, otelMocks.NewOtel())

	err := client.SendMessages(context.Background(), "hotel.booking.events", kafka.Message{Key: "k", Value: func() {}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, kafka.ErrClosed)
}
