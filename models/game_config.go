package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"gemarcade/games/blackjack"
	"gemarcade/games/mines"
	"gemarcade/games/plinko"
	"gemarcade/games/slots"
)

// GameKey identifies a configurable game
type GameKey string

const (
	GameSlots     GameKey = "slots"
	GameMines     GameKey = "mines"
	GamePlinko    GameKey = "plinko"
	GameBlackjack GameKey = "blackjack"
	GameJackpot   GameKey = "jackpot"
)

// GameKeys lists every configurable game
var GameKeys = []GameKey{GameSlots, GameMines, GamePlinko, GameBlackjack, GameJackpot}

var ErrInvalidConfig = errors.New("invalid game config")

// GameConfig is the current configuration row for a game
type GameConfig struct {
	Key       GameKey         `db:"key"`
	Enabled   bool            `db:"enabled"`
	Config    json.RawMessage `db:"config"`
	Version   int             `db:"version"`
	UpdatedBy *string         `db:"updated_by"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// GameConfigHistory is a superseded configuration version
type GameConfigHistory struct {
	ID         int64           `db:"id"`
	Key        GameKey         `db:"key"`
	Enabled    bool            `db:"enabled"`
	Config     json.RawMessage `db:"config"`
	Version    int             `db:"version"`
	UpdatedBy  *string         `db:"updated_by"`
	RecordedAt time.Time       `db:"recorded_at"`
}

// BetBounds is the inclusive stake range for a game
type BetBounds struct {
	MinBet int64 `json:"minBet"`
	MaxBet int64 `json:"maxBet"`
}

// Allows reports whether bet is inside the bounds
func (b BetBounds) Allows(bet int64) bool {
	return bet > 0 && bet >= b.MinBet && bet <= b.MaxBet
}

func (b BetBounds) validate() error {
	if b.MinBet <= 0 || b.MaxBet < b.MinBet {
		return fmt.Errorf("%w: bet bounds %d-%d", ErrInvalidConfig, b.MinBet, b.MaxBet)
	}
	return nil
}

var defaultBounds = BetBounds{MinBet: 10, MaxBet: 200}

// SlotsConfig tunes slots. Payout overrides merge over the default table.
type SlotsConfig struct {
	BetBounds
	Payouts  map[slots.Symbol]float64 `json:"payouts,omitempty"`
	Partials map[slots.Symbol]float64 `json:"partials,omitempty"`
}

func DefaultSlotsConfig() SlotsConfig {
	return SlotsConfig{BetBounds: defaultBounds}
}

func (c SlotsConfig) Validate() error {
	if err := c.BetBounds.validate(); err != nil {
		return err
	}
	for _, table := range []map[slots.Symbol]float64{c.Payouts, c.Partials} {
		for sym, m := range table {
			if m < 0 {
				return fmt.Errorf("%w: negative multiplier for %s", ErrInvalidConfig, sym)
			}
		}
	}
	return nil
}

// Paytable merges the overrides onto the default table
func (c SlotsConfig) Paytable() slots.Paytable {
	table := slots.DefaultPaytable()
	for sym, m := range c.Payouts {
		table.Full[sym] = m
	}
	for sym, m := range c.Partials {
		table.Partial[sym] = m
	}
	return table
}

// MinesConfig tunes mines
type MinesConfig struct {
	BetBounds
	MinMines  int     `json:"minMines"`
	MaxMines  int     `json:"maxMines"`
	HouseEdge float64 `json:"houseEdge"`
}

func DefaultMinesConfig() MinesConfig {
	return MinesConfig{
		BetBounds: defaultBounds,
		MinMines:  3,
		MaxMines:  15,
		HouseEdge: mines.DefaultHouseEdge,
	}
}

func (c MinesConfig) Validate() error {
	if err := c.BetBounds.validate(); err != nil {
		return err
	}
	if c.MinMines < 1 || c.MaxMines < c.MinMines || c.MaxMines >= mines.DefaultGridSize {
		return fmt.Errorf("%w: mines range %d-%d", ErrInvalidConfig, c.MinMines, c.MaxMines)
	}
	if c.HouseEdge <= 0 || c.HouseEdge > 1 {
		return fmt.Errorf("%w: house edge %v", ErrInvalidConfig, c.HouseEdge)
	}
	return nil
}

// PlinkoConfig tunes plinko
type PlinkoConfig struct {
	BetBounds
	Rows  []int                     `json:"rows"`
	Risks map[plinko.Risk][]float64 `json:"risks"`
}

func DefaultPlinkoConfig() PlinkoConfig {
	return PlinkoConfig{
		BetBounds: defaultBounds,
		Rows:      []int{8, 12, 16},
		Risks:     plinko.DefaultMultipliers(),
	}
}

func (c PlinkoConfig) Validate() error {
	if err := c.BetBounds.validate(); err != nil {
		return err
	}
	if len(c.Rows) == 0 {
		return fmt.Errorf("%w: no rows configured", ErrInvalidConfig)
	}
	for _, r := range c.Rows {
		if r < 4 || r > 16 {
			return fmt.Errorf("%w: rows %d outside 4-16", ErrInvalidConfig, r)
		}
	}
	if len(c.Risks) == 0 {
		return fmt.Errorf("%w: no risk tables", ErrInvalidConfig)
	}
	for risk, table := range c.Risks {
		if len(table) == 0 {
			return fmt.Errorf("%w: empty table for %s", ErrInvalidConfig, risk)
		}
		for _, m := range table {
			if m < 0 {
				return fmt.Errorf("%w: negative multiplier for %s", ErrInvalidConfig, risk)
			}
		}
	}
	return nil
}

// AllowsRows reports whether rows is one of the configured board sizes
func (c PlinkoConfig) AllowsRows(rows int) bool {
	return slices.Contains(c.Rows, rows)
}

// BlackjackConfig tunes blackjack
type BlackjackConfig struct {
	BetBounds
	DealerStandOn int `json:"dealerStandOn"`
}

func DefaultBlackjackConfig() BlackjackConfig {
	return BlackjackConfig{BetBounds: defaultBounds, DealerStandOn: blackjack.DefaultDealerStandOn}
}

func (c BlackjackConfig) Validate() error {
	if err := c.BetBounds.validate(); err != nil {
		return err
	}
	if c.DealerStandOn < 12 || c.DealerStandOn > 21 {
		return fmt.Errorf("%w: dealer stands on %d", ErrInvalidConfig, c.DealerStandOn)
	}
	return nil
}

// JackpotConfig tunes the pooled jackpot
type JackpotConfig struct {
	MinEntry             int64 `json:"minEntry"`
	RoundDurationSeconds int   `json:"roundDurationSeconds"`
	HouseCutBps          int   `json:"houseCutBps"`
}

func DefaultJackpotConfig() JackpotConfig {
	return JackpotConfig{MinEntry: 50, RoundDurationSeconds: 300, HouseCutBps: 250}
}

func (c JackpotConfig) Validate() error {
	if c.MinEntry <= 0 {
		return fmt.Errorf("%w: min entry %d", ErrInvalidConfig, c.MinEntry)
	}
	if c.RoundDurationSeconds <= 0 {
		return fmt.Errorf("%w: round duration %d", ErrInvalidConfig, c.RoundDurationSeconds)
	}
	if c.HouseCutBps < 0 || c.HouseCutBps > 10000 {
		return fmt.Errorf("%w: house cut %d bps", ErrInvalidConfig, c.HouseCutBps)
	}
	return nil
}

// RoundDuration returns the entry window length
func (c JackpotConfig) RoundDuration() time.Duration {
	return time.Duration(c.RoundDurationSeconds) * time.Second
}

type validator interface {
	Validate() error
}

// decode overlays raw onto defaults so absent fields keep their default
func decode[T validator](raw json.RawMessage, defaults T) (T, error) {
	cfg := defaults
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *GameConfig) Slots() (SlotsConfig, error) { return decode(c.Config, DefaultSlotsConfig()) }
func (c *GameConfig) Mines() (MinesConfig, error) { return decode(c.Config, DefaultMinesConfig()) }
func (c *GameConfig) Plinko() (PlinkoConfig, error) {
	return decode(c.Config, DefaultPlinkoConfig())
}
func (c *GameConfig) Blackjack() (BlackjackConfig, error) {
	return decode(c.Config, DefaultBlackjackConfig())
}
func (c *GameConfig) Jackpot() (JackpotConfig, error) {
	return decode(c.Config, DefaultJackpotConfig())
}

// ValidateGameConfig checks raw against the typed config for key
func ValidateGameConfig(key GameKey, raw json.RawMessage) error {
	gc := &GameConfig{Key: key, Config: raw}
	var err error
	switch key {
	case GameSlots:
		_, err = gc.Slots()
	case GameMines:
		_, err = gc.Mines()
	case GamePlinko:
		_, err = gc.Plinko()
	case GameBlackjack:
		_, err = gc.Blackjack()
	case GameJackpot:
		_, err = gc.Jackpot()
	default:
		err = fmt.Errorf("%w: unknown game %q", ErrInvalidConfig, key)
	}
	return err
}

// DefaultGameConfig returns the serialized defaults for key
func DefaultGameConfig(key GameKey) (json.RawMessage, error) {
	var v any
	switch key {
	case GameSlots:
		v = DefaultSlotsConfig()
	case GameMines:
		v = DefaultMinesConfig()
	case GamePlinko:
		v = DefaultPlinkoConfig()
	case GameBlackjack:
		v = DefaultBlackjackConfig()
	case GameJackpot:
		v = DefaultJackpotConfig()
	default:
		return nil, fmt.Errorf("%w: unknown game %q", ErrInvalidConfig, key)
	}
	return json.Marshal(v)
}
