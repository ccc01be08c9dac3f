// Package task implements the unit of work a vehicle submits to a fog node,
// its lifecycle, and the process-wide state ledger that partitions all tasks.
package task

import (
	"math"
	"time"

	"fogsim/resource"
)

// State is one of the four buckets a task can occupy.
type State int

const (
	Pending State = iota
	InProgress
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case InProgress:
		return "In Progress"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Task is a unit of computation owned by a vehicle.
type Task struct {
	ID        string
	VehicleID string
	Resource  resource.Resource

	RemainingTime        int
	initialRemainingTime int
	Cost                 int
	Deadline             *time.Time

	State State

	// DistanceToVehicle is snapshotted when the task is assigned to a fog
	// node; it feeds the node's task-distance accumulator.
	DistanceToVehicle float64

	kBandwidthCharge float64
}

// New constructs a PENDING task. kBandwidthCharge is the K_BANDWIDTH_CHARGE
// constant used to derive the task's migration cost from its remaining time
// at birth.
func New(id, vehicleID string, demand resource.Resource, remainingTime, cost int, deadline *time.Time, kBandwidthCharge float64) *Task {
	return &Task{
		ID:                   id,
		VehicleID:            vehicleID,
		Resource:             demand,
		RemainingTime:        remainingTime,
		initialRemainingTime: remainingTime,
		Cost:                 cost,
		Deadline:             deadline,
		State:                Pending,
		kBandwidthCharge:     kBandwidthCharge,
	}
}

// BandwidthCharge returns the derived per-task migration cost,
// ⌊K_BANDWIDTH_CHARGE · initial_remaining_time⌋, fixed at construction.
func (t *Task) BandwidthCharge() int {
	return int(math.Floor(t.kBandwidthCharge * float64(t.initialRemainingTime)))
}

// Progress decrements the remaining-time counter by dt seconds and updates
// state: COMPLETED once remaining time drops to zero or below, IN_PROGRESS
// otherwise. dt == 0 is the "first acceptance" transition used by
// fog.Node.Assign to move a task from PENDING to IN_PROGRESS without
// consuming time. The caller is responsible for moving the ledger bucket.
func (t *Task) Progress(dt int) {
	t.RemainingTime -= dt
	if t.RemainingTime <= 0 {
		t.State = Completed
	} else {
		t.State = InProgress
	}
}

// Fail transitions the task directly to FAILED without touching any ledger;
// Ledger.Fail is the ledger-aware equivalent used on vehicle destruction.
func (t *Task) Fail() {
	t.State = Failed
}
