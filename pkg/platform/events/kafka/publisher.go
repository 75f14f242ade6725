// Package kafka publishes the notification log to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"mintgate/pkg/platform/events"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "mintgate.events"

// Publisher implements events.Sink on top of a Kafka producer. The topic is
// created with a single partition because consumers rely on global event
// order.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for produce diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New connects to the brokers and ensures the topic exists.
func New(ctx context.Context, brokers []string, topic string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create topic %q: %w", topic, err)
	}

	p := &Publisher{
		client: client,
		topic:  topic,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Append produces one event synchronously. The record key is the sequence
// number so replays after relay restarts are detectable downstream.
func (p *Publisher) Append(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatUint(event.Sequence, 10)),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %d: %w", event.Sequence, err)
	}
	return nil
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string {
	return p.topic
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
