package sim

import "hash/fnv"

// Named RNG streams. Every stochastic component derives its seed from the run
// seed and its stream name, so adding a new random consumer never shifts the
// sequence another component sees. Two runs with the same run seed and
// configuration must produce identical results.
const (
	// StreamSlugGeneration feeds the inlet slug generation jitter.
	StreamSlugGeneration = "slug-generation"
)

// DeriveSeed maps a run seed and a stream name onto the stream's own seed:
// runSeed XOR FNV-1a(stream).
func DeriveSeed(runSeed int64, stream string) int64 {
	h := fnv.New64a()
	h.Write([]byte(stream))
	return runSeed ^ int64(h.Sum64())
}
