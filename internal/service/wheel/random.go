package wheel

import (
	"math/rand/v2"
)

// RandomSource - источник равномерных чисел в [0, 1)
type RandomSource interface {
	Float64() float64
}

type globalRNG struct{}

func (globalRNG) Float64() float64 { return rand.Float64() }

func DefaultRandom() RandomSource { return globalRNG{} }

type seededRNG struct {
	r *rand.Rand
}

// NewSeededRandom - воспроизводимый источник (симуляции, тесты)
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }
