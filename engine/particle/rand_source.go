package particle

import (
	"math/rand"
	"time"
)

// RandSource yields uniform floats in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float32() float32
}

// RandSourceFactory builds the random source owned by one update chunk.
type RandSourceFactory func(chunk int) RandSource

// seededFactory returns a factory that derives a distinct math/rand source per chunk
// from one base seed. A zero seed picks the current time.
//
// Parameters:
//   - seed: base seed, or 0 for a time-based seed
//
// Returns:
//   - RandSourceFactory: the per-chunk factory
func seededFactory(seed int64) RandSourceFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return func(chunk int) RandSource {
		return rand.New(rand.NewSource(seed + int64(chunk)*0x9E3779B97F4A7C))
	}
}

// jitter maps a uniform draw onto [-span/2, span/2).
func jitter(r RandSource, span float32) float32 {
	return (r.Float32() - 0.5) * span
}
