package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
)

// Kafka writes every event to one topic; the broadcast topic travels as the
// record key so a consumer sees one order's events in order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

func NewKafka(cfg configs.KafkaConfig) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Kafka{client: client, topic: cfg.Topic}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic, event string, payload interface{}) error {
	msg, err := newMessage(topic, event, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	rec := &kgo.Record{
		Topic:     k.topic,
		Key:       []byte(topic),
		Value:     body,
		Timestamp: msg.Timestamp,
		Headers: []kgo.RecordHeader{
			{Key: "event", Value: []byte(event)},
			{Key: "id", Value: []byte(msg.ID)},
		},
	}
	if err := k.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}
