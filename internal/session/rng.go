// ABOUTME: Deterministic pseudo-random source for exercise selection.
// ABOUTME: Seeds are hashed from (user, week, slot) and stepped with a 32-bit LCG.
package session

import "fmt"

// Source yields integers in [0, n). Implementations must be deterministic for a given seed.
type Source interface {
	Intn(n int) int
}

// LCG multiplier and increment.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// LCG is a 32-bit linear congruential generator.
type LCG struct {
	state uint32
}

// NewLCG seeds a generator from the hash of seed.
func NewLCG(seed string) *LCG {
	return &LCG{state: HashSeed(seed)}
}

// HashSeed accumulates h = h*31 + b over the bytes of seed.
func HashSeed(seed string) uint32 {
	var h uint32
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint32(seed[i])
	}
	return h
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Intn returns a value in [0, n) using the high bits of the next state. It panics if n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		panic("session: Intn called with non-positive n")
	}
	return int((uint64(g.Next()) * uint64(n)) >> 32)
}

// Seed builds the seed string for one session slot of a user's week.
func Seed(userID string, week int, slot string) string {
	return fmt.Sprintf("%s:%d:%s", userID, week, slot)
}

// StandardSlot names the i-th standard session of a week.
func StandardSlot(i int) string { return fmt.Sprintf("standard-%d", i) }

// MinimumSlot names the i-th minimum-viable session of a week.
func MinimumSlot(i int) string { return fmt.Sprintf("minimum-%d", i) }
