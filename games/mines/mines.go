package mines

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gemarcade/rng"
)

const (
	DefaultGridSize  = 25
	DefaultHouseEdge = 0.98
)

// Status is the round state
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusLost   Status = "LOST"
	StatusCashed Status = "CASHED"
)

var (
	ErrRoundFinished    = errors.New("round finished")
	ErrInvalidTile      = errors.New("tile out of range")
	ErrInvalidMineCount = errors.New("invalid mine count")
)

// Round holds everything needed to resume a mines game between calls
type Round struct {
	GridSize   int     `json:"gridSize"`
	MinesCount int     `json:"minesCount"`
	HouseEdge  float64 `json:"houseEdge"`
	Bombs      []int   `json:"bombs"`
	Revealed   []int   `json:"revealed"`
	Status     Status  `json:"status"`
}

// RevealResult describes one reveal
type RevealResult struct {
	Tile            int     `json:"tile"`
	HitMine         bool    `json:"hitMine"`
	AlreadyRevealed bool    `json:"alreadyRevealed"`
	Multiplier      float64 `json:"multiplier"`
}

// NewRound places minesCount bombs on the default grid
func NewRound(minesCount int, src rng.Source) (*Round, error) {
	return NewRoundWithGrid(DefaultGridSize, minesCount, DefaultHouseEdge, src)
}

// NewRoundWithGrid places minesCount distinct bombs uniformly on a gridSize board
func NewRoundWithGrid(gridSize, minesCount int, houseEdge float64, src rng.Source) (*Round, error) {
	if minesCount < 1 || minesCount >= gridSize {
		return nil, fmt.Errorf("%w: %d mines on %d tiles", ErrInvalidMineCount, minesCount, gridSize)
	}

	// partial Fisher-Yates: the first minesCount slots are a uniform sample
	tiles := make([]int, gridSize)
	for i := range tiles {
		tiles[i] = i
	}
	for i := 0; i < minesCount; i++ {
		j := i + src.IntN(gridSize-i)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
	bombs := slices.Clone(tiles[:minesCount])
	slices.Sort(bombs)

	return &Round{
		GridSize:   gridSize,
		MinesCount: minesCount,
		HouseEdge:  houseEdge,
		Bombs:      bombs,
		Revealed:   []int{},
		Status:     StatusActive,
	}, nil
}

// Multiplier is the cashout multiplier after revealedSafe safe tiles
func Multiplier(revealedSafe, minesCount, gridSize int, houseEdge float64) float64 {
	if revealedSafe <= 0 {
		return 1
	}
	base := float64(gridSize) / float64(gridSize-minesCount)
	m := math.Pow(base, float64(revealedSafe)) * houseEdge
	return math.Round(m*10000) / 10000
}

// CurrentMultiplier is the multiplier a cashout would use right now
func (r *Round) CurrentMultiplier() float64 {
	return Multiplier(len(r.Revealed), r.MinesCount, r.GridSize, r.HouseEdge)
}

// IsTerminal reports whether the round accepts no further actions
func (r *Round) IsTerminal() bool {
	return r.Status != StatusActive
}

func (r *Round) isBomb(tile int) bool {
	return slices.Contains(r.Bombs, tile)
}

// Reveal uncovers a tile
func (r *Round) Reveal(tile int) (RevealResult, error) {
	if r.IsTerminal() {
		return RevealResult{}, ErrRoundFinished
	}
	if tile < 0 || tile >= r.GridSize {
		return RevealResult{}, fmt.Errorf("%w: %d", ErrInvalidTile, tile)
	}

	res := RevealResult{Tile: tile}
	switch {
	case slices.Contains(r.Revealed, tile):
		res.AlreadyRevealed = true
	case r.isBomb(tile):
		res.HitMine = true
		r.Status = StatusLost
		return res, nil
	default:
		r.Revealed = append(r.Revealed, tile)
	}

	res.Multiplier = r.CurrentMultiplier()
	return res, nil
}

// Cashout closes the round and returns the payout for bet
func (r *Round) Cashout(bet int64) (int64, error) {
	if r.IsTerminal() {
		return 0, ErrRoundFinished
	}
	payout := int64(math.Floor(float64(bet) * r.CurrentMultiplier()))
	r.Status = StatusCashed
	return payout, nil
}

// View is the client-safe projection. Bomb positions are only shown once
// the round is over.
type View struct {
	GridSize   int     `json:"gridSize"`
	MinesCount int     `json:"minesCount"`
	Revealed   []int   `json:"revealed"`
	Bombs      []int   `json:"bombs,omitempty"`
	Status     Status  `json:"status"`
	Multiplier float64 `json:"multiplier"`
}

// View returns the client projection of the round
func (r *Round) View() View {
	v := View{
		GridSize:   r.GridSize,
		MinesCount: r.MinesCount,
		Revealed:   slices.Clone(r.Revealed),
		Status:     r.Status,
		Multiplier: r.CurrentMultiplier(),
	}
	if r.IsTerminal() {
		v.Bombs = slices.Clone(r.Bombs)
	}
	return v
}
