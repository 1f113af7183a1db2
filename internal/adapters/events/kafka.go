// internal/adapters/events/kafka.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// KafkaConfig holds producer settings
type KafkaConfig struct {
	Brokers         []string
	ClientID        string
	WarehouseTopic  string
	InventoryTopic  string
	Acks            string
	Retries         int
	PublishAttempts int
	RetryBackoff    time.Duration
}

// KafkaPublisher publishes domain events with a synchronous producer.
// Warehouse lifecycle events go to WarehouseTopic, everything else to
// InventoryTopic. The aggregate id is the message key.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   KafkaConfig
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher connects a sync producer to the configured brokers
func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.Retries
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	switch cfg.Acks {
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	}
	// the idempotent producer requires acks=all
	if sc.Producer.RequiredAcks != sarama.WaitForAll {
		sc.Producer.Idempotent = false
		sc.Net.MaxOpenRequests = 5
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, cfg, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, cfg KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	if cfg.PublishAttempts <= 0 {
		cfg.PublishAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	return &KafkaPublisher{
		producer: producer,
		config:   cfg,
		logger:   logger.With(slog.String("component", "kafka_publisher")),
	}
}

// Publish sends the events in order. It stops at the first event that could
// not be delivered after all attempts.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	for _, event := range events {
		msg, err := p.message(event)
		if err != nil {
			return err
		}
		if err := p.send(ctx, msg, event); err != nil {
			return err
		}
	}
	return nil
}

func (p *KafkaPublisher) send(ctx context.Context, msg *sarama.ProducerMessage, event domain.Event) error {
	var lastErr error
	for attempt := 0; attempt < p.config.PublishAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		partition, offset, err := p.producer.SendMessage(msg)
		if err == nil {
			p.logger.DebugContext(ctx, "event published",
				slog.String("topic", msg.Topic),
				slog.Int("partition", int(partition)),
				slog.Int64("offset", offset),
				slog.String("event_type", string(event.Type)),
				slog.Int("attempt", attempt+1))
			return nil
		}
		lastErr = err

		p.logger.WarnContext(ctx, "failed to publish event, retrying",
			slog.String("topic", msg.Topic),
			slog.String("event_type", string(event.Type)),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt < p.config.PublishAttempts-1 {
			delay := p.config.RetryBackoff * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("failed to publish %s after %d attempts: %w", event.Type, p.config.PublishAttempts, lastErr)
}

func (p *KafkaPublisher) message(event domain.Event) (*sarama.ProducerMessage, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: p.topicFor(event),
		Key:   sarama.StringEncoder(event.AggregateID.String()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
			{Key: []byte("event-id"), Value: []byte(event.ID.String())},
			{Key: []byte("timestamp"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}

func (p *KafkaPublisher) topicFor(event domain.Event) string {
	if event.IsWarehouseEvent() {
		return p.config.WarehouseTopic
	}
	return p.config.InventoryTopic
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// LogPublisher writes events to the log instead of a broker. It is used when
// Kafka is disabled.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With(slog.String("component", "log_publisher"))}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	for _, e := range events {
		p.logger.DebugContext(ctx, "domain event",
			slog.String("event_type", string(e.Type)),
			slog.String("event_id", e.ID.String()),
			slog.String("aggregate_id", e.AggregateID.String()))
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
