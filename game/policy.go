package game

import "fmt"

// Policy is a per-column move preference vector. Values are whatever the
// dataset provides (rollout fractions, probabilities); nothing here
// normalizes them.
type Policy [ActionSpace]float32

// PolicyFromSlice validates the length and copies the values.
func PolicyFromSlice(vals []float32) (Policy, error) {
	var p Policy
	if len(vals) != ActionSpace {
		return p, fmt.Errorf("policy vector has %d values, want %d", len(vals), ActionSpace)
	}
	copy(p[:], vals)
	return p, nil
}

// Argmax returns the most preferred column. Ties resolve to the lowest
// column index.
func (p Policy) Argmax() int {
	best := 0
	for i := 1; i < ActionSpace; i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

// Sum is mostly useful for sanity checks on normalized policies.
func (p Policy) Sum() float32 {
	var s float32
	for _, v := range p {
		s += v
	}
	return s
}
