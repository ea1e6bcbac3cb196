package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gemarcade/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// sourceService identifies this process in event envelopes
const sourceService = "gemarcade"

// EventEnvelope wraps an event payload for the message bus
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// PublishRecorder counts published messages
type PublishRecorder interface {
	RecordNATSMessagePublished(eventType string)
}

// EventForwarder republishes committed bus events to the message bus
// under "<prefix>.<eventType>"
type EventForwarder struct {
	publisher MessagePublisher
	prefix    string
	recorder  PublishRecorder
}

// NewEventForwarder creates a forwarder; recorder may be nil
func NewEventForwarder(publisher MessagePublisher, prefix string, recorder PublishRecorder) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		prefix:    prefix,
		recorder:  recorder,
	}
}

// Subject returns the subject an event type is published to
func (f *EventForwarder) Subject(eventType events.EventType) string {
	return fmt.Sprintf("%s.%s", f.prefix, eventType)
}

// Subscribe forwards every known event type from the bus
func (f *EventForwarder) Subscribe(bus *events.Bus) {
	for _, eventType := range []events.EventType{
		events.EventTypeBalanceChange,
		events.EventTypeAccountCreated,
		events.EventTypeGameRoundCompleted,
		events.EventTypeJackpotSettled,
		events.EventTypeCaseOpened,
	} {
		bus.Subscribe(eventType, f.handle)
	}
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) {
	if err := f.Forward(ctx, event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to forward event")
	}
}

// Forward publishes one event
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := f.Subject(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return err
	}
	if f.recorder != nil {
		f.recorder.RecordNATSMessagePublished(string(event.Type()))
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event")
	return nil
}
