// Package xrand implements the stepped-uniform sampling rule shared by the
// topology, resource and task generators: pick a uniform integer in
// [min/step, max/step] and multiply it by step.
package xrand

import (
	"math/rand"

	"fogsim/fogerr"
)

// SteppedRange describes an inclusive [Min, Max] range sampled in multiples
// of Step.
type SteppedRange struct {
	Min, Max, Step int
}

// Validate reports an INVALID_RANGE error for any degenerate range: Min > Max,
// a non-positive Step, or a Step too coarse to admit more than one multiple.
func (s SteppedRange) Validate() error {
	if s.Min > s.Max {
		return fogerr.InvalidRangef("min %d cannot be greater than max %d", s.Min, s.Max)
	}
	if s.Step <= 0 {
		return fogerr.InvalidRangef("step %d must be positive", s.Step)
	}
	if s.Min/s.Step == s.Max/s.Step {
		return fogerr.InvalidRangef("step %d is too big for range [%d, %d]", s.Step, s.Min, s.Max)
	}
	return nil
}

// Sample draws a uniform integer in [Min/Step, Max/Step] (integer division)
// using rng and multiplies it by Step. The result lies within [Min, Max]
// when Min is a multiple of Step; otherwise it can fall below Min.
func (s SteppedRange) Sample(rng *rand.Rand) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	lo, hi := s.Min/s.Step, s.Max/s.Step
	return (lo + rng.Intn(hi-lo+1)) * s.Step, nil
}

// IntRange is a plain inclusive integer range used for counts that are not
// stepped (e.g. task-count-per-batch).
type IntRange struct {
	Min, Max int
}

// Sample draws a uniform integer in [Min, Max].
func (r IntRange) Sample(rng *rand.Rand) (int, error) {
	if r.Min > r.Max {
		return 0, fogerr.InvalidRangef("min %d cannot be greater than max %d", r.Min, r.Max)
	}
	return r.Min + rng.Intn(r.Max-r.Min+1), nil
}
