package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

const (
	TopicContractsGenerated = "contracts.generated"

	EventTypeContractGenerated = "contract.generated"

	schemaVersion = "v1"
	sourceService = "contractpilot"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        sourceService,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "empty event payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

func (e *EventEnvelope) ToMessage(topic string, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

func MessageToEventEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// publisher is the part of Producer the event publisher needs.
type publisher interface {
	Publish(ctx context.Context, msg *Message) error
}

// ContractEventPublisher publishes contract lifecycle events keyed by
// contract id, so events for one contract stay on one partition.
type ContractEventPublisher struct {
	producer publisher
	topic    string
	logger   logging.Logger
}

func NewContractEventPublisher(p publisher, topic string, logger logging.Logger) *ContractEventPublisher {
	if topic == "" {
		topic = TopicContractsGenerated
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ContractEventPublisher{producer: p, topic: topic, logger: logger}
}

func (p *ContractEventPublisher) PublishContractGenerated(ctx context.Context, ev *contract.GeneratedEvent) error {
	env, err := NewEventEnvelope(EventTypeContractGenerated, ev)
	if err != nil {
		return err
	}
	if !ev.OccurredAt.IsZero() {
		env.Timestamp = ev.OccurredAt
	}
	// Keyed by lead so every contract of a lead lands on one partition.
	msg, err := env.ToMessage(p.topic, ev.LeadID)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("contract event published",
		logging.ContractID(ev.ContractID), logging.String("event_id", env.EventID))
	return nil
}

// DecodeContractGenerated extracts the event from a consumed message.
func DecodeContractGenerated(msg *Message) (*contract.GeneratedEvent, error) {
	env, err := MessageToEventEnvelope(msg)
	if err != nil {
		return nil, err
	}
	if env.EventType != EventTypeContractGenerated {
		return nil, errors.Newf(errors.ErrCodeValidation, "unexpected event type %q", env.EventType)
	}
	var ev contract.GeneratedEvent
	if err := env.DecodePayload(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

//Personal.AI order the ending
