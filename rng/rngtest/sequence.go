// Package rngtest provides scripted randomness for engine tests.
package rngtest

// Sequence replays scripted floats. IntN maps the next float onto [0,n).
// When the script runs out it repeats the last value.
type Sequence struct {
	Values []float64
	pos    int
}

// NewSequence creates a Sequence replaying values in order
func NewSequence(values ...float64) *Sequence {
	return &Sequence{Values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if s.pos >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}

func (s *Sequence) IntN(n int) int {
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Ints replays scripted integers from IntN, clamped into [0,n).
type Ints struct {
	Values []int
	pos    int
}

// NewInts creates an Ints source replaying values in order
func NewInts(values ...int) *Ints {
	return &Ints{Values: values}
}

func (s *Ints) Float64() float64 {
	return 0
}

func (s *Ints) IntN(n int) int {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[len(s.Values)-1]
	if s.pos < len(s.Values) {
		v = s.Values[s.pos]
		s.pos++
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
