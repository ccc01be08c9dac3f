package fog

import (
	"fogsim/geo"
	"fogsim/task"
)

// Globals mirrors the process-wide accumulator the spec calls
// all_task_distances, scoped to one simulation run rather than a package
// global so that independent runs never share mutable state.
type Globals struct {
	AllTaskDistances float64
}

// AssignCtx threads the per-simulation ledger, global accumulators, a
// speculative QoS evaluator and a vehicle-position lookup through the
// placement decision tree. QoS and VehiclePosition are injected by the
// caller (see package qos / vehicle / sim) rather than imported directly,
// so that fog never depends on qos or vehicle — qos depends on fog to read
// []*Node and vehicle depends on fog for Node/AskAssign, and injecting the
// closures here breaks what would otherwise be cycles.
type AssignCtx struct {
	Ledger  *task.Ledger
	Globals *Globals
	QoS     func() float64

	// VehiclePosition resolves a vehicle id to its last known position. Used
	// during cost-mode displacement to compute a displaced task's own
	// distance contribution against its own owning vehicle, not the
	// position of whichever vehicle triggered the displacement. A nil value
	// or a false second return falls back to the triggering call's
	// position — the best available approximation when a vehicle's
	// position isn't tracked (e.g. in tests that don't wire it).
	VehiclePosition func(vehicleID string) (geo.Point, bool)
}
