// Package random provides the randomness sources used to resolve contests.
//
// Crypto draws from crypto/rand at resolution time so neither party can
// predict the outcome when stakes are committed. Seeded and Sequence are
// deterministic and exist for replays and tests.
package random

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// float53 maps the top 53 bits of v onto [0,1).
func float53(v uint64) float64 {
	return float64(v>>11) / (1 << 53)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

var _ types.RandomnessSource = Crypto{}

// Crypto draws every value from crypto/rand.
type Crypto struct{}

// Draw implements types.RandomnessSource.
func (Crypto) Draw(_ context.Context) (float64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random draw: %w", err)
	}
	return float53(binary.LittleEndian.Uint64(b[:])), nil
}

// Seeded is a deterministic source for replaying a recorded game.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a source seeded with seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Draw implements types.RandomnessSource.
func (s *Seeded) Draw(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64(), nil
}

// ErrExhausted is returned by Sequence once every value was drawn.
var ErrExhausted = errors.New("random sequence exhausted")

// Sequence returns preset values in order.
type Sequence struct {
	mu     sync.Mutex
	values []float64
}

// NewSequence returns a source yielding values in order. Each value must be
// in [0,1).
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Draw implements types.RandomnessSource.
func (s *Sequence) Draw(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0, ErrExhausted
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 || v >= 1 {
		return 0, fmt.Errorf("random value %v outside [0,1)", v)
	}
	return v, nil
}
