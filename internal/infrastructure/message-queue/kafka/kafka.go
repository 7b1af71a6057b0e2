package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	circuitbreaker "github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/circuit-breaker"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const publishTimeout = 3 * time.Second

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events through a circuit breaker.
type Producer struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[any]
}

func CreateKafkaWriter(config *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:                  config.KafkaConfig.BrokerTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           publishTimeout,
	}
}

func CreateKafkaProducer(writer MessageWriter, breaker *gobreaker.CircuitBreaker[any]) *Producer {
	if breaker == nil {
		breaker = circuitbreaker.CreateCircuitBreaker("kafka-producer")
	}

	return &Producer{writer: writer, breaker: breaker}
}

func (p *Producer) Publish(ctx context.Context, key string, message any) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: value,
		})
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Publish").Msg("")
		return fmt.Errorf("failed to write Kafka message: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopProducer is used when no broker is configured.
type NoopProducer struct{}

func (NoopProducer) Publish(ctx context.Context, key string, message any) error {
	log.Ctx(ctx).Debug().Str("key", key).Msg("no broker configured, event dropped")
	return nil
}

func (NoopProducer) Close() error {
	return nil
}
