// Package randutil provides the random sources used to shuffle decks.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Func adapts a plain function to a Source.
type Func func() float64

// Float64 calls f.
func (f Func) Float64() float64 { return f() }

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so call sites only carry an int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeed draws a non-zero seed from crypto/rand. Zero is reserved to mean
// "pick one for me" in configuration.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
		return seed, nil
	}
	return 1, nil
}

// Default returns a freshly seeded generator. It falls back to the wall
// clock when crypto/rand is unavailable.
func Default() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	return New(seed)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
