package flock

import (
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
)

// NewRand returns a PRNG seeded from the hash of seed, so a named seed
// replays the same run. The empty seed is time based.
func NewRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(xxhash.Sum64String(seed))))
}
