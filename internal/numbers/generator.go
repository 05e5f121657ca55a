package numbers

import "math/rand/v2"

const (
	// Assigned numbers are seven digit values.
	Min = 1_000_000
	Max = 10_000_000
)

// Generate draws n uniform random numbers in [Min, Max). Duplicates are
// possible; winner selection matches on ticket, not number uniqueness.
func Generate(n int) []int64 {
	if n <= 0 {
		return []int64{}
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = Min + rand.Int64N(Max-Min)
	}
	return out
}
