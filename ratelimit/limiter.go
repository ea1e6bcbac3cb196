// Package ratelimit provides per-key admission control for player actions.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Decision is the outcome of one admission check
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Rule allows Limit hits per key within each fixed Window
type Rule struct {
	Limit  int64
	Window time.Duration
}

// Limiter admits or rejects hits for a key
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Action names a rate limited player action
type Action string

const (
	ActionSlots       Action = "slots"
	ActionPlinko      Action = "plinko"
	ActionMinesStart  Action = "mines-start"
	ActionMinesAction Action = "mines-action"
	ActionBlackjack   Action = "blackjack"
	ActionCase        Action = "case"
	ActionJackpot     Action = "jackpot"
)

// DefaultRules returns the per-action limits
func DefaultRules() map[Action]Rule {
	return map[Action]Rule{
		ActionSlots:       {Limit: 10, Window: time.Second},
		ActionPlinko:      {Limit: 8, Window: time.Second},
		ActionMinesStart:  {Limit: 5, Window: time.Second},
		ActionMinesAction: {Limit: 20, Window: time.Second},
		ActionBlackjack:   {Limit: 10, Window: time.Second},
		ActionCase:        {Limit: 5, Window: time.Second},
		ActionJackpot:     {Limit: 5, Window: time.Second},
	}
}

// Set holds one limiter per action. Actions without a limiter are always allowed.
type Set struct {
	limiters map[Action]Limiter
}

// NewSet builds a limiter for every rule using newLimiter
func NewSet(rules map[Action]Rule, newLimiter func(Action, Rule) Limiter) *Set {
	limiters := make(map[Action]Limiter, len(rules))
	for action, rule := range rules {
		limiters[action] = newLimiter(action, rule)
	}
	return &Set{limiters: limiters}
}

// Allow checks the action's limiter for an account
func (s *Set) Allow(ctx context.Context, action Action, accountID string) (Decision, error) {
	limiter, ok := s.limiters[action]
	if !ok {
		return Decision{Allowed: true}, nil
	}
	decision, err := limiter.Allow(ctx, accountID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check %s limit: %w", action, err)
	}
	return decision, nil
}

// fallbackLimiter consults primary and switches to secondary for any hit
// the primary cannot answer.
type fallbackLimiter struct {
	primary   Limiter
	secondary Limiter
}

// WithFallback returns a limiter that uses secondary whenever primary errors
func WithFallback(primary, secondary Limiter) Limiter {
	return &fallbackLimiter{primary: primary, secondary: secondary}
}

func (l *fallbackLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	decision, err := l.primary.Allow(ctx, key)
	if err == nil {
		return decision, nil
	}
	log.WithError(err).WithField("key", key).Warn("Primary limiter unavailable, using local fallback")
	return l.secondary.Allow(ctx, key)
}
