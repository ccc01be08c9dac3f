// Package resource implements the fixed (cpu, ram, storage) capacity vector
// shared by fog nodes and tasks, and its componentwise arithmetic.
package resource

import "fogsim/fogerr"

// Resource is a non-negative (cpu %, ram MB, storage GB) triple.
type Resource struct {
	CPU     int
	RAM     int
	Storage int
}

// Add returns the componentwise sum.
func (r Resource) Add(o Resource) Resource {
	return Resource{r.CPU + o.CPU, r.RAM + o.RAM, r.Storage + o.Storage}
}

// Sub returns the componentwise difference. It is only defined when every
// resulting component is non-negative; otherwise it returns a
// CAPACITY_VIOLATION error.
func (r Resource) Sub(o Resource) (Resource, error) {
	out := Resource{r.CPU - o.CPU, r.RAM - o.RAM, r.Storage - o.Storage}
	if out.CPU < 0 || out.RAM < 0 || out.Storage < 0 {
		return Resource{}, fogerr.CapacityViolationf("resource subtraction went negative: %+v - %+v", r, o)
	}
	return out, nil
}

// RatioVector is the componentwise quotient of two Resources.
type RatioVector struct {
	CPU     float64
	RAM     float64
	Storage float64
}

// Div returns the componentwise ratio r/o. A zero divisor component yields a
// ratio of 0 for that component (an empty-capacity fog contributes nothing
// to usage rather than dividing by zero).
func (r Resource) Div(o Resource) RatioVector {
	ratio := func(num, den int) float64 {
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}
	return RatioVector{ratio(r.CPU, o.CPU), ratio(r.RAM, o.RAM), ratio(r.Storage, o.Storage)}
}

// MaxComponent returns the largest of the three ratios.
func (v RatioVector) MaxComponent() float64 {
	m := v.CPU
	if v.RAM > m {
		m = v.RAM
	}
	if v.Storage > m {
		m = v.Storage
	}
	return m
}

// LessEq reports whether r is componentwise less than or equal to o — the
// admission predicate used throughout the placement algorithm.
func (r Resource) LessEq(o Resource) bool {
	return r.CPU <= o.CPU && r.RAM <= o.RAM && r.Storage <= o.Storage
}
