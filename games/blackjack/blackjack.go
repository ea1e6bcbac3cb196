package blackjack

import (
	"errors"
	"fmt"
	"math"

	"gemarcade/rng"
)

// Status is the hand state. Everything except ACTIVE is terminal.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusPlayerBust Status = "PLAYER_BUST"
	StatusBlackjack  Status = "BLACKJACK"
	StatusPlayerWin  Status = "PLAYER_WIN"
	StatusDealerWin  Status = "DEALER_WIN"
	StatusPush       Status = "PUSH"
	StatusDealerBust Status = "DEALER_BUST"
)

// Target picks which hand receives a card
type Target string

const (
	TargetPlayer Target = "player"
	TargetDealer Target = "dealer"
)

const DefaultDealerStandOn = 17

var (
	ErrRoundFinished    = errors.New("round finished")
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrDoubleNotAllowed = errors.New("double only allowed on the first two cards")
)

// Suit of a card
type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Card has a rank from 1 (ace) to 13 (king)
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	var r string
	switch c.Rank {
	case 1:
		r = "A"
	case 11:
		r = "J"
	case 12:
		r = "Q"
	case 13:
		r = "K"
	default:
		r = fmt.Sprintf("%d", c.Rank)
	}
	return r + string(c.Suit)
}

// NewDeck returns an ordered 52 card deck
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range suits {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: s})
		}
	}
	return deck
}

// Shuffle performs a Fisher-Yates shuffle in place
func Shuffle(deck []Card, src rng.Source) {
	for i := len(deck) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// HandValue totals a hand, counting aces as 11 until that would bust
func HandValue(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		switch {
		case c.Rank == 1:
			total += 11
			aces++
		case c.Rank >= 10:
			total += 10
		default:
			total += c.Rank
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// Hand is the full serialized round state
type Hand struct {
	Deck          []Card `json:"deck"`
	Player        []Card `json:"player"`
	Dealer        []Card `json:"dealer"`
	Status        Status `json:"status"`
	DealerStandOn int    `json:"dealerStandOn"`
	Doubled       bool   `json:"doubled"`
}

// Deal shuffles a fresh deck and deals two cards each, player first.
// A natural 21 ends the hand immediately as BLACKJACK.
func Deal(src rng.Source, dealerStandOn int) (*Hand, error) {
	if dealerStandOn <= 0 {
		dealerStandOn = DefaultDealerStandOn
	}
	deck := NewDeck()
	Shuffle(deck, src)

	h := &Hand{
		Deck:          deck,
		Player:        []Card{},
		Dealer:        []Card{},
		Status:        StatusActive,
		DealerStandOn: dealerStandOn,
	}
	for _, target := range []Target{TargetPlayer, TargetPlayer, TargetDealer, TargetDealer} {
		if err := h.deal(target); err != nil {
			return nil, err
		}
	}
	if HandValue(h.Player) == 21 {
		h.Status = StatusBlackjack
	}
	return h, nil
}

// IsTerminal reports whether the hand is over
func (h *Hand) IsTerminal() bool {
	return h.Status != StatusActive
}

func (h *Hand) draw() (Card, error) {
	if len(h.Deck) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := h.Deck[len(h.Deck)-1]
	h.Deck = h.Deck[:len(h.Deck)-1]
	return c, nil
}

func (h *Hand) deal(target Target) error {
	c, err := h.draw()
	if err != nil {
		return err
	}
	if target == TargetDealer {
		h.Dealer = append(h.Dealer, c)
	} else {
		h.Player = append(h.Player, c)
	}
	return nil
}

// Hit draws one card to target and busts that side if it exceeds 21
func (h *Hand) Hit(target Target) error {
	if h.IsTerminal() {
		return ErrRoundFinished
	}
	if err := h.deal(target); err != nil {
		return err
	}
	switch {
	case target == TargetPlayer && HandValue(h.Player) > 21:
		h.Status = StatusPlayerBust
	case target == TargetDealer && HandValue(h.Dealer) > 21:
		h.Status = StatusDealerBust
	}
	return nil
}

// Stand plays out the dealer and sets the final status
func (h *Hand) Stand() error {
	if h.IsTerminal() {
		return ErrRoundFinished
	}
	for HandValue(h.Dealer) < h.DealerStandOn {
		if err := h.deal(TargetDealer); err != nil {
			return err
		}
	}

	player, dealer := HandValue(h.Player), HandValue(h.Dealer)
	switch {
	case dealer > 21:
		h.Status = StatusDealerBust
	case player > dealer:
		h.Status = StatusPlayerWin
	case dealer > player:
		h.Status = StatusDealerWin
	default:
		h.Status = StatusPush
	}
	return nil
}

// Double takes exactly one more card then stands. A bust on the
// doubled card ends the hand without the dealer playing.
func (h *Hand) Double() error {
	if h.IsTerminal() {
		return ErrRoundFinished
	}
	if len(h.Player) != 2 || h.Doubled {
		return ErrDoubleNotAllowed
	}
	h.Doubled = true
	if err := h.Hit(TargetPlayer); err != nil {
		return err
	}
	if h.IsTerminal() {
		return nil
	}
	return h.Stand()
}

// Settle maps a terminal status to the amount returned for bet
func Settle(status Status, bet int64) int64 {
	switch status {
	case StatusBlackjack:
		return int64(math.Floor(float64(bet) * 2.5))
	case StatusDealerBust, StatusPlayerWin:
		return bet * 2
	case StatusPush:
		return bet
	default:
		return 0
	}
}

// View is the client projection. The dealer's hole card is withheld while
// the hand is active.
type View struct {
	Player      []Card `json:"player"`
	Dealer      []Card `json:"dealer"`
	PlayerTotal int    `json:"playerTotal"`
	DealerTotal int    `json:"dealerTotal"`
	HoleHidden  bool   `json:"holeHidden"`
	Status      Status `json:"status"`
	Doubled     bool   `json:"doubled"`
}

// View returns the client projection of the hand
func (h *Hand) View() View {
	v := View{
		Player:      append([]Card(nil), h.Player...),
		PlayerTotal: HandValue(h.Player),
		Status:      h.Status,
		Doubled:     h.Doubled,
	}
	if h.Status == StatusActive && len(h.Dealer) > 1 {
		v.Dealer = []Card{h.Dealer[0]}
		v.HoleHidden = true
	} else {
		v.Dealer = append([]Card(nil), h.Dealer...)
	}
	v.DealerTotal = HandValue(v.Dealer)
	return v
}
