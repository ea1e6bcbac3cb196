package rng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Stream tags a draw for audit grouping. It does not change the distribution.
type Stream string

const (
	StreamOutcome  Stream = "outcome"
	StreamLoot     Stream = "loot"
	StreamJackpot  Stream = "jackpot"
	StreamCosmetic Stream = "cosmetic"
)

// Streams lists every stream the services draw on
var Streams = []Stream{StreamOutcome, StreamLoot, StreamJackpot, StreamCosmetic}

// Source is what the game engines draw from
type Source interface {
	// Float64 returns a value in [0,1)
	Float64() float64
	// IntN returns a value in [0,n). It panics if n <= 0.
	IntN(n int) int
}

// cryptoSource feeds math/rand/v2 from crypto/rand. It is stateless, so a
// *rand.Rand built on it is safe for concurrent use.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error; it crashes the process if the
	// system source is broken.
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Service hands out crypto-backed streams and counts draws per stream
type Service struct {
	rand  *mrand.Rand
	mu    sync.Mutex
	draws map[Stream]*atomic.Uint64
}

// NewService creates a new RNG service
func NewService() *Service {
	return &Service{
		rand:  mrand.New(cryptoSource{}),
		draws: make(map[Stream]*atomic.Uint64),
	}
}

// Float returns a uniform float in [0,1) on the given stream
func (s *Service) Float(stream Stream) float64 {
	s.count(stream)
	return s.rand.Float64()
}

// Int returns a uniform integer in [0,max) on the given stream
func (s *Service) Int(max int, stream Stream) int {
	s.count(stream)
	return s.rand.IntN(max)
}

// Stream returns a Source bound to one stream
func (s *Service) Stream(stream Stream) Source {
	return &streamSource{svc: s, stream: stream}
}

// Draws reports how many values were drawn on a stream since start
func (s *Service) Draws(stream Stream) uint64 {
	s.mu.Lock()
	c, ok := s.draws[stream]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// NewCommitment generates a server seed on the given stream
func (s *Service) NewCommitment(stream Stream) Commitment {
	s.count(stream)
	c := NewCommitment()
	log.WithFields(log.Fields{
		"stream":   stream,
		"seedHash": c.Hash,
	}).Debug("Generated seed commitment")
	return c
}

func (s *Service) count(stream Stream) {
	s.mu.Lock()
	c, ok := s.draws[stream]
	if !ok {
		c = &atomic.Uint64{}
		s.draws[stream] = c
	}
	s.mu.Unlock()
	c.Add(1)
}

type streamSource struct {
	svc    *Service
	stream Stream
}

func (s *streamSource) Float64() float64 { return s.svc.Float(s.stream) }
func (s *streamSource) IntN(n int) int   { return s.svc.Int(n, s.stream) }

// NewSeeded returns a reproducible Source derived from an arbitrary seed string.
// The same seed always yields the same sequence.
func NewSeeded(seed string) Source {
	sum := sha256.Sum256([]byte(seed))
	return mrand.New(mrand.NewPCG(
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are never picked unless every weight is non-positive,
// in which case the last index is returned.
func WeightedIndex(weights []int64, src Source) int {
	var total int64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if len(weights) == 0 {
		return -1
	}
	if total <= 0 {
		return len(weights) - 1
	}

	ticket := int64(src.IntN(int(total)))
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if ticket < w {
			return i
		}
		ticket -= w
	}
	return len(weights) - 1
}
