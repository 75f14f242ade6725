//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "mintgate/pkg/domain"
	"mintgate/pkg/platform/events"
	"mintgate/pkg/platform/events/kafka"
	"mintgate/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redpanda = mgr.GetRedpanda(s.T())
}

// uniqueTopic isolates each test on its own topic so runs do not read
// each other's records.
func uniqueTopic() string {
	return "mintgate.events." + uuid.NewString()
}

func (s *KafkaPublisherSuite) consume(topic string, want int) []*kgo.Record {
	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	deadline := time.Now().Add(10 * time.Second)
	var records []*kgo.Record
	for len(records) < want && time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		fetches := consumer.PollFetches(ctx)
		cancel()
		s.Require().NoError(fetches.Err0())
		records = append(records, fetches.Records()...)
	}
	s.Require().Len(records, want)
	return records
}

func (s *KafkaPublisherSuite) TestPublishRoundTrip() {
	ctx := context.Background()
	topic := uniqueTopic()

	publisher, err := kafka.New(ctx, s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	defer publisher.Close()
	s.Equal(topic, publisher.Topic())

	log := events.NewLog()
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")

	first, err := log.Append(ctx, events.NewMint(alice, 2, 1, 2))
	s.Require().NoError(err)
	second, err := log.Append(ctx, events.NewPauseStateChanged(true))
	s.Require().NoError(err)

	s.Require().NoError(publisher.Append(ctx, first))
	s.Require().NoError(publisher.Append(ctx, second))

	records := s.consume(topic, 2)

	s.Equal("1", string(records[0].Key))
	var minted events.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &minted))
	s.Equal(events.KindMint, minted.Kind)
	s.Equal(alice.String(), minted.Address)
	s.Equal(uint64(2), minted.Quantity)
	s.Equal(uint64(1), minted.FirstID)
	s.Equal(uint64(2), minted.LastID)

	s.Equal("2", string(records[1].Key))
	var paused events.Event
	s.Require().NoError(json.Unmarshal(records[1].Value, &paused))
	s.Equal(events.KindPauseStateChanged, paused.Kind)
	s.True(paused.Enabled)
}

// TestSinglePartitionPreservesOrder publishes a burst and expects the
// consumer to see sequences in order, since the topic has one partition.
func (s *KafkaPublisherSuite) TestSinglePartitionPreservesOrder() {
	ctx := context.Background()
	topic := uniqueTopic()

	publisher, err := kafka.New(ctx, s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	defer publisher.Close()

	log := events.NewLog()
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")

	const burst = 20
	for i := 0; i < burst; i++ {
		event, err := log.Append(ctx, events.NewAddedToWhitelist(alice))
		s.Require().NoError(err)
		s.Require().NoError(publisher.Append(ctx, event))
	}

	records := s.consume(topic, burst)
	for i, record := range records {
		var event events.Event
		s.Require().NoError(json.Unmarshal(record.Value, &event))
		s.Equal(uint64(i+1), event.Sequence)
	}
}

func (s *KafkaPublisherSuite) TestNewRejectsEmptyBrokers() {
	_, err := kafka.New(context.Background(), nil, "whatever")
	s.Error(err)
}
