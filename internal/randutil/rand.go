// Package randutil centralises how seeds become random sources so that every
// shuffle and simulation in the engine is reproducible from an int64 seed.
//
// Seed strategy: the seed is expanded with splitmix64 into the two 64-bit
// words a PCG generator needs. Independent streams (for example one per
// equity worker) are derived with Derive, which mixes the stream index into
// the seed before expansion.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed of an independent stream of seed.
func Derive(seed int64, stream int) int64 {
	return int64(mix(uint64(seed) ^ mix(uint64(stream)+goldenRatio64)))
}

// TimeSeed returns a seed from the wall clock for production use.
func TimeSeed() int64 {
	return time.Now().UnixNano()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
