package analysis

import (
	"math/rand"
	"sync"
)

// RandomSource abstracts randomness so tests can inject a fixed seed and
// the fallback simulation stays reproducible.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// SplittableRandomSource can derive independent child sources, used when
// the window loop runs across segments concurrently.
type SplittableRandomSource interface {
	RandomSource
	Split(index int) RandomSource
}

type seededSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewSeededRandom returns a RandomSource backed by math/rand with the
// given seed. Safe for concurrent use.
func NewSeededRandom(seed int64) SplittableRandomSource {
	return &seededSource{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Split derives a child source whose seed is a pure function of the
// parent seed and the index, keeping segment-parallel runs deterministic.
func (s *seededSource) Split(index int) RandomSource {
	return NewSeededRandom(s.seed + int64(index+1)*0x9E3779B9)
}
