package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// Producer publishes clip lifecycle events to Kafka
type Producer struct {
	client *kgo.Client
	logger logging.Logger
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, clientID, topic string, logger logging.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
		kgo.ProducerBatchMaxBytes(1000000),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Producer{
		client: client,
		logger: logger,
		topic:  topic,
	}, nil
}

func (p *Producer) Close() error {
	p.client.Close()
	return nil
}

// ProduceMessage publishes a raw message to a topic
func (p *Producer) ProduceMessage(topic string, key []byte, value []byte, headers map[string]string) error {
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: value,
	}

	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{
			Key:   k,
			Value: []byte(v),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := p.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// PublishClipEvent publishes a single typed ClipEvent
func (p *Producer) PublishClipEvent(event *ClipEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := map[string]string{
		"source":     event.Source,
		"event_type": event.EventType,
	}
	if event.UserID != "" {
		headers["user_id"] = event.UserID
	}

	return p.ProduceMessage(p.topic, []byte(event.EventID), value, headers)
}

// PublishClipEventBatch publishes a batch of typed ClipEvents
func (p *Producer) PublishClipEventBatch(events []ClipEvent) error {
	if len(events) == 0 {
		return nil
	}

	var records []*kgo.Record
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", event.EventID, err)
		}

		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(event.EventID),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "source", Value: []byte(event.Source)},
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		}
		if event.UserID != "" {
			record.Headers = append(record.Headers, kgo.RecordHeader{
				Key:   "user_id",
				Value: []byte(event.UserID),
			})
		}

		records = append(records, record)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := p.client.ProduceSync(ctx, records...)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce batch: %w", err)
	}

	return nil
}

// HealthCheck pings the Kafka cluster
func (p *Producer) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	return nil
}

// GetClient returns the underlying kgo.Client for health checks
func (p *Producer) GetClient() *kgo.Client {
	return p.client
}
