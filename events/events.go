package events

import (
	"context"
	"sync"

	"gemarcade/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeAccountCreated     EventType = "account_created"
	EventTypeGameRoundCompleted EventType = "game_round_completed"
	EventTypeJackpotSettled     EventType = "jackpot_settled"
	EventTypeCaseOpened         EventType = "case_opened"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every committed ledger entry
type BalanceChangeEvent struct {
	AccountID       string                 `json:"accountId"`
	OldBalance      int64                  `json:"oldBalance"`
	NewBalance      int64                  `json:"newBalance"`
	ChangeAmount    int64                  `json:"changeAmount"`
	TransactionType models.TransactionType `json:"transactionType"`
	CorrelationID   string                 `json:"correlationId"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted when a wallet is opened
type AccountCreatedEvent struct {
	AccountID      string `json:"accountId"`
	Username       string `json:"username"`
	InitialBalance int64  `json:"initialBalance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// GameRoundCompletedEvent is emitted when a game round reaches a terminal state
type GameRoundCompletedEvent struct {
	Game          models.GameKey `json:"game"`
	AccountID     string         `json:"accountId"`
	CorrelationID string         `json:"correlationId"`
	Bet           int64          `json:"bet"`
	Payout        int64          `json:"payout"`
	Outcome       string         `json:"outcome"`
}

func (e GameRoundCompletedEvent) Type() EventType {
	return EventTypeGameRoundCompleted
}

// JackpotSettledEvent is emitted when a jackpot round closes or pays out
type JackpotSettledEvent struct {
	RoundID    string               `json:"roundId"`
	Status     models.JackpotStatus `json:"status"`
	WinnerID   string               `json:"winnerId,omitempty"`
	Pot        int64                `json:"pot"`
	Payout     int64                `json:"payout"`
	ServerSeed string               `json:"serverSeed"`
}

func (e JackpotSettledEvent) Type() EventType {
	return EventTypeJackpotSettled
}

// CaseOpenedEvent is emitted after a case roll commits
type CaseOpenedEvent struct {
	AccountID     string `json:"accountId"`
	CaseKey       string `json:"caseKey"`
	Rarity        string `json:"rarity"`
	ItemKey       string `json:"itemKey"`
	CorrelationID string `json:"correlationId"`
}

func (e CaseOpenedEvent) Type() EventType {
	return EventTypeCaseOpened
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run on their
// own goroutines; a panicking handler is logged and does not affect others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it
// commits. Flush forwards them to the real bus; Discard drops them.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the queued events
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional bus")

	// handlers outlive the request, so they must not inherit its cancellation
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
