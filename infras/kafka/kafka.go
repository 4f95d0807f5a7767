package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const batchTimeout = 50 * time.Millisecond

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrClosed = errors.New("kafka client is closed")

// Message is one record. Value is encoded as JSON and Key decides the partition.
type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("encode message %q: %w", m.Key, err)
	}

	headers := make([]kafkaGo.Header, 0, len(m.Headers))
	for key, header := range m.Headers {
		headers = append(headers, kafkaGo.Header{Key: key, Value: []byte(header)})
	}

	return kafkaGo.Message{Key: []byte(m.Key), Value: value, Headers: headers}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) error
	Close() error
}

type client struct {
	transport *kafkaGo.Transport
	address   net.Addr
	otel      otel.Otel

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
	closed  bool
}

func New(cfg *config.Config, otel otel.Otel) Client {
	transport := &kafkaGo.Transport{}

	if cfg.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("enabled", cfg.Kafka.Enable).Msg("Kafka producer configured")

	return &client{
		transport: transport,
		address:   kafkaGo.TCP(cfg.Kafka.Brokers...),
		otel:      otel,
		writers:   map[string]*kafkaGo.Writer{},
	}
}

// writer returns the topic's writer, creating it on first use.
func (c *client) writer(topic string) (*kafkaGo.Writer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if w, ok := c.writers[topic]; ok {
		return w, nil
	}

	w := &kafkaGo.Writer{
		Addr:                   c.address,
		Topic:                  topic,
		Transport:              c.transport,
		Balancer:               &kafkaGo.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafkaGo.RequireAll,
		AllowAutoTopicCreation: true,
	}
	c.writers[topic] = w

	return w, nil
}

func (c *client) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
	}()

	scope.SetAttributes(map[string]any{
		"messaging.destination": topic,
		"messaging.batch_size":  len(messages),
	})

	records := make([]kafkaGo.Message, len(messages))
	for i := range messages {
		if records[i], err = messages[i].ToKafkaMessage(); err != nil {
			return err
		}
	}

	w, err := c.writer(topic)
	if err != nil {
		return err
	}

	if err = w.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("published")

	return nil
}

// Close flushes and closes every writer. Later sends fail with ErrClosed.
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	errs := make([]error, 0, len(c.writers))
	for topic, w := range c.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer for %s: %w", topic, err))
		}
	}

	return errors.Join(errs...)
}
