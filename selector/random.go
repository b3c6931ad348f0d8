package selector

import (
	"math/rand"
	"sort"
)

// sampleIndices picks n distinct indices in [0, total) using rnd, and
// returns them in ascending order so the sample preserves the source's
// relative ordering rather than scrambling it.
func sampleIndices(rnd *rand.Rand, total, n int) []int {
	if n >= total {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	// partial Fisher-Yates over an index pool, classic reservoir-free
	// sampling-without-replacement.
	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(total-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	chosen := pool[:n]
	out := make([]int, len(chosen))
	copy(out, chosen)
	sort.Ints(out)
	return out
}
