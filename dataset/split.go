package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// Split shuffles the indices 0..n-1 with the given seed and partitions
// them at floor(trainFraction*n). It is a pure function of its arguments:
// the same (n, trainFraction, seed) always yields the same partition, and
// the samples themselves are untouched, so board/policy pairing cannot be
// disturbed by splitting.
//
// The test set may legitimately be empty for small n (for n < 2 with the
// default 0.8 fraction). Callers evaluating on the test split must handle
// that case; Split itself does not treat it as an error.
func Split(n int, trainFraction float64, seed int64) (train, test []int, err error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("negative sample count %d", n)
	}
	if trainFraction < 0 || trainFraction > 1 || math.IsNaN(trainFraction) {
		return nil, nil, fmt.Errorf("train fraction %v outside [0,1]", trainFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	cut := int(math.Floor(trainFraction * float64(n)))
	return perm[:cut], perm[cut:], nil
}

// Subset materializes the samples selected by idx, in idx order.
func Subset(samples []Sample, idx []int) []Sample {
	out := make([]Sample, 0, len(idx))
	for _, i := range idx {
		out = append(out, samples[i])
	}
	return out
}
