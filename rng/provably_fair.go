package rng

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Commitment is a server seed and its published hash. The hash goes out
// before play, the seed after, so players can check nothing was swapped.
type Commitment struct {
	Seed string
	Hash string
}

// NewCommitment generates a random 32 byte seed and its hash
func NewCommitment() Commitment {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	seed := hex.EncodeToString(b)
	return Commitment{Seed: seed, Hash: HashSeed(seed)}
}

// HashSeed returns the hex sha256 of a seed
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether seed hashes to hash
func VerifyCommitment(seed, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashSeed(seed)), []byte(hash)) == 1
}

// RollProvablyFair maps HMAC-SHA256(serverSeed, "clientSeed:nonce") to [0,1)
// using the leading 53 bits of the digest.
func RollProvablyFair(serverSeed, clientSeed string, nonce uint64) float64 {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	fmt.Fprintf(mac, "%s:%d", clientSeed, nonce)
	sum := mac.Sum(nil)
	return float64(binary.BigEndian.Uint64(sum[:8])>>11) / (1 << 53)
}

// FairSource is a Source backed by provably-fair rolls. Each draw consumes
// the next nonce.
type FairSource struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
}

// NewFairSource creates a FairSource starting at nonce 0
func NewFairSource(serverSeed, clientSeed string) *FairSource {
	return &FairSource{ServerSeed: serverSeed, ClientSeed: clientSeed}
}

func (f *FairSource) Float64() float64 {
	v := RollProvablyFair(f.ServerSeed, f.ClientSeed, f.Nonce)
	f.Nonce++
	return v
}

func (f *FairSource) IntN(n int) int {
	if n <= 0 {
		panic("invalid argument to IntN")
	}
	return int(f.Float64() * float64(n))
}
