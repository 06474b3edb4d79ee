// Package broadcast delivers order events to real-time subscribers.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topics and events consumed by the socket gateway.
const (
	TopicAdmin              = "admin"
	TopicFranchiseBroadcast = "franchise:broadcast"

	EventOrderStatusUpdated = "order_status_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventNewOrder           = "new_order"
)

func OrderTopic(orderID string) string {
	return "order:" + orderID
}

func FranchiseTopic(franchiseID string) string {
	return "franchise:" + franchiseID
}

// Broadcaster publishes a single event to a topic.
type Broadcaster interface {
	Publish(ctx context.Context, topic, event string, payload interface{}) error
}

// Message is the wire form shared by every transport.
type Message struct {
	ID        string          `json:"id"`
	Topic     string          `json:"topic"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func newMessage(topic, event string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return Message{
		ID:        uuid.NewString(),
		Topic:     topic,
		Event:     event,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, interface{}) error { return nil }

// Multi fans an event out to every transport and joins their errors.
type Multi []Broadcaster

func (m Multi) Publish(ctx context.Context, topic, event string, payload interface{}) error {
	var errs []error
	for _, b := range m {
		if err := b.Publish(ctx, topic, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
