package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"gemarcade/events"
	"gemarcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordNATSMessagePublished(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[eventType]++
}

func TestEventForwarder_Forward(t *testing.T) {
	publisher := new(mockPublisher)
	recorder := &countingRecorder{}
	forwarder := NewEventForwarder(publisher, "gemarcade", recorder)

	event := events.GameRoundCompletedEvent{
		Game:          models.GameSlots,
		AccountID:     "acc-1",
		CorrelationID: "corr-1",
		Bet:           10,
		Payout:        25,
		Outcome:       "win",
	}

	var published []byte
	publisher.On("Publish", mock.Anything, "gemarcade.game_round_completed", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).([]byte) }).
		Return(nil).Once()

	require.NoError(t, forwarder.Forward(context.Background(), event))
	publisher.AssertExpectations(t)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(published, &envelope))
	assert.Equal(t, "game_round_completed", envelope.EventType)
	assert.Equal(t, "gemarcade", envelope.SourceService)
	assert.NotEmpty(t, envelope.EventID)

	var payload events.GameRoundCompletedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
	assert.Equal(t, 1, recorder.counts["game_round_completed"])
}

func TestEventForwarder_PublishErrorIsReturned(t *testing.T) {
	publisher := new(mockPublisher)
	forwarder := NewEventForwarder(publisher, "arcade", nil)

	publisher.On("Publish", mock.Anything, "arcade.balance_change", mock.Anything).
		Return(errors.New("not connected to NATS"))

	err := forwarder.Forward(context.Background(), events.BalanceChangeEvent{AccountID: "acc-1"})
	assert.Error(t, err)
}

func TestEventForwarder_SubscribeForwardsCommittedEvents(t *testing.T) {
	publisher := new(mockPublisher)
	forwarder := NewEventForwarder(publisher, "gemarcade", nil)
	bus := events.NewBus()
	forwarder.Subscribe(bus)

	done := make(chan struct{})
	publisher.On("Publish", mock.Anything, "gemarcade.case_opened", mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(nil).Once()

	tx := events.NewTransactionalBus(bus)
	tx.Publish(events.CaseOpenedEvent{AccountID: "acc-1", CaseKey: "starter"})
	require.NoError(t, tx.Flush(context.Background()))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not forwarded")
	}
}

func TestEventForwarder_Subject(t *testing.T) {
	forwarder := NewEventForwarder(nil, "prod", nil)
	assert.Equal(t, "prod.jackpot_settled", forwarder.Subject(events.EventTypeJackpotSettled))
}
