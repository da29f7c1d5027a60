package dungeon

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed keeps generation reproducible when no seed is configured.
const DefaultSeed = "prototype"

// DeterministicSeedValue derives a stable int64 from a root seed string and
// a label, so subsystems (generation, combat rolls) get independent streams
// from the same configured seed.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}
