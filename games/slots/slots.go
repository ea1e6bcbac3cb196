package slots

import (
	"errors"
	"math"

	"gemarcade/rng"
)

// Symbol is a reel symbol
type Symbol string

const (
	SymbolGem    Symbol = "gem"
	SymbolSeven  Symbol = "seven"
	SymbolCrown  Symbol = "crown"
	SymbolStar   Symbol = "star"
	SymbolHeart  Symbol = "heart"
	SymbolCoin   Symbol = "coin"
	SymbolCherry Symbol = "cherry"
)

const (
	Reels     = 3
	Rows      = 3
	CenterRow = 1
)

var ErrInvalidBet = errors.New("bet must be positive")

// WeightedSymbol is one entry of the reel strip
type WeightedSymbol struct {
	Symbol Symbol
	Weight int64
}

// Symbols is the reel table, rarest first. The weights sum to 72.
var Symbols = []WeightedSymbol{
	{SymbolGem, 1},
	{SymbolSeven, 3},
	{SymbolCrown, 5},
	{SymbolStar, 8},
	{SymbolHeart, 12},
	{SymbolCoin, 18},
	{SymbolCherry, 25},
}

// Paytable maps a center-row match to a bet multiplier
type Paytable struct {
	Full    map[Symbol]float64 `json:"full"`
	Partial map[Symbol]float64 `json:"partial"`
}

// DefaultPaytable returns the standard payout table
func DefaultPaytable() Paytable {
	return Paytable{
		Full: map[Symbol]float64{
			SymbolGem:    100,
			SymbolSeven:  50,
			SymbolCrown:  25,
			SymbolStar:   15,
			SymbolHeart:  10,
			SymbolCoin:   5,
			SymbolCherry: 3,
		},
		Partial: map[Symbol]float64{
			SymbolGem:   5,
			SymbolSeven: 3,
			SymbolCrown: 2,
		},
	}
}

// Grid is indexed grid[reel][row]
type Grid [Reels][Rows]Symbol

// CenterLine returns the payline symbols left to right
func (g Grid) CenterLine() [Reels]Symbol {
	var line [Reels]Symbol
	for reel := 0; reel < Reels; reel++ {
		line[reel] = g[reel][CenterRow]
	}
	return line
}

// Result is the outcome of one spin
type Result struct {
	Grid       Grid    `json:"grid"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	WinLines   []int   `json:"winLines"`
	IsWin      bool    `json:"isWin"`
}

// Spin draws a fresh grid and evaluates it
func Spin(bet int64, src rng.Source, table Paytable) (Result, error) {
	if bet <= 0 {
		return Result{}, ErrInvalidBet
	}

	weights := make([]int64, len(Symbols))
	for i, s := range Symbols {
		weights[i] = s.Weight
	}

	var grid Grid
	for reel := 0; reel < Reels; reel++ {
		for row := 0; row < Rows; row++ {
			grid[reel][row] = Symbols[rng.WeightedIndex(weights, src)].Symbol
		}
	}

	return CalculatePayout(grid, bet, table), nil
}

// CalculatePayout evaluates the center row of a grid
func CalculatePayout(grid Grid, bet int64, table Paytable) Result {
	line := grid.CenterLine()

	var mult float64
	switch {
	case line[0] == line[1] && line[1] == line[2]:
		mult = table.Full[line[0]]
	case line[0] == line[1]:
		mult = table.Partial[line[0]]
	}

	result := Result{
		Grid:       grid,
		Multiplier: mult,
		WinLines:   []int{},
	}
	if mult > 0 {
		result.WinLines = []int{CenterRow}
		result.Payout = int64(math.Floor(float64(bet) * mult))
	}
	result.IsWin = result.Payout > 0
	return result
}
