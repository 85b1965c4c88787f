package quorum

import (
	"math/rand"
	"time"
)

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) NowMs() int64 { return time.Now().UnixMilli() }

// RandSource adapts math/rand to the Randomizer interface.
type RandSource struct {
	r *rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Intn(n int) int { return s.r.Intn(n) }
