package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"eventdesk/config"
	"eventdesk/infras/otel"
	"eventdesk/shared/constant"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	batchTimeout    = 50 * time.Millisecond
	otelAttrTopic   = "topic"
	otelAttrCount   = "messages"
	headerEventType = "event_type"
)

type Message struct {
	Key   string
	Type  string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	message := kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: value,
	}

	if m.Type != "" {
		message.Headers = []kafkaGo.Header{{Key: headerEventType, Value: []byte(m.Type)}}
	}

	return message, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaClientImpl struct {
	writer writer
	otel   otel.Otel
}

// New creates a producer shared by every topic. Without configured brokers
// messages are logged and dropped.
func New(cfg *config.Config, ot otel.Otel) (Client, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("No Kafka brokers configured, booking events will be discarded")

		client := &kafkaClientImpl{writer: discardWriter{}, otel: ot}

		return client, func() {}
	}

	var mechanism sasl.Mechanism
	if cfg.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	client := &kafkaClientImpl{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Balancer:               &kafkaGo.Hash{},
			Transport:              &kafkaGo.Transport{SASL: mechanism},
			AllowAutoTopicCreation: true,
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafkaGo.RequireOne,
		},
		otel: ot,
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka client initialized")

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Kafka writer")
		}
	}
}

// NewWithWriter is used by tests to capture produced messages.
func NewWithWriter(w writer, ot otel.Otel) Client {
	return &kafkaClientImpl{writer: w, otel: ot}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttributes(map[string]any{otelAttrTopic: topic, otelAttrCount: len(messages)})

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return err
		}

		msg.Topic = topic
		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	return k.writer.Close() //nolint:wrapcheck
}

type discardWriter struct{}

func (discardWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	for _, msg := range msgs {
		log.Debug().Str("topic", msg.Topic).Str("key", string(msg.Key)).Msg("Discarded Kafka message.")
	}

	return nil
}

func (discardWriter) Close() error {
	return nil
}
