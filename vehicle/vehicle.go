// Package vehicle implements the task producer that drives per-tick
// assignment against the fog topology.
package vehicle

import (
	"fmt"
	"math/rand"

	"fogsim/fog"
	"fogsim/geo"
	"fogsim/resource"
	"fogsim/task"
	"fogsim/xrand"
)

// TaskGenerationConfig parameterises GenerateTasks.
type TaskGenerationConfig struct {
	CountRange       xrand.IntRange
	ResourceCPU      xrand.SteppedRange
	ResourceRAM      xrand.SteppedRange
	ResourceStorage  xrand.SteppedRange
	DurationRange    xrand.SteppedRange
	CostRange        xrand.SteppedRange
	KBandwidthCharge float64
}

// Vehicle is a task producer: it owns a task list, a count of tasks not yet
// finished, and a cache of distances to every fog node refreshed each tick.
type Vehicle struct {
	ID               string
	Tasks            []*task.Task
	NotFinishedTasks int

	DistanceToFog map[string]float64
	Position      geo.Point

	nextTaskSeq int
}

// New constructs an empty vehicle.
func New(id string) *Vehicle {
	return &Vehicle{ID: id, DistanceToFog: make(map[string]float64)}
}

// GenerateTasks refills the vehicle's queue with a uniformly sampled count
// of freshly generated, PENDING tasks, each enrolled in ledger.
func (v *Vehicle) GenerateTasks(cfg TaskGenerationConfig, rng *rand.Rand, ledger *task.Ledger) error {
	count, err := cfg.CountRange.Sample(rng)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		cpu, err := cfg.ResourceCPU.Sample(rng)
		if err != nil {
			return err
		}
		ram, err := cfg.ResourceRAM.Sample(rng)
		if err != nil {
			return err
		}
		storage, err := cfg.ResourceStorage.Sample(rng)
		if err != nil {
			return err
		}
		duration, err := cfg.DurationRange.Sample(rng)
		if err != nil {
			return err
		}
		cost, err := cfg.CostRange.Sample(rng)
		if err != nil {
			return err
		}

		id := fmt.Sprintf("%s_task_%d", v.ID, v.nextTaskSeq)
		v.nextTaskSeq++
		t := task.New(id, v.ID, resource.Resource{CPU: cpu, RAM: ram, Storage: storage}, duration, cost, nil, cfg.KBandwidthCharge)
		ledger.Track(t)
		v.Tasks = append(v.Tasks, t)
		v.NotFinishedTasks++
	}
	return nil
}

// SetDistanceToFogs refreshes the Euclidean-distance cache against every
// fog node, from the vehicle's current position.
func (v *Vehicle) SetDistanceToFogs(fogs []*fog.Node, position geo.Point) {
	v.Position = position
	v.DistanceToFog = make(map[string]float64, len(fogs))
	for _, f := range fogs {
		v.DistanceToFog[f.ID] = geo.Dist(position, f.Position)
	}
}

// NearestFog returns the fog node with the smallest cached distance, or nil
// if fogs is empty.
func (v *Vehicle) NearestFog(fogs []*fog.Node) *fog.Node {
	var nearest *fog.Node
	best := 0.0
	for _, f := range fogs {
		d, ok := v.DistanceToFog[f.ID]
		if !ok {
			continue
		}
		if nearest == nil || d < best {
			nearest = f
			best = d
		}
	}
	return nearest
}

// AssignTasks submits every still-PENDING task to the nearest fog node. On
// acceptance the task's state is asserted IN_PROGRESS — it may already have
// been moved there by the acceptor (a neighbour or a displacement target).
func (v *Vehicle) AssignTasks(ctx *fog.AssignCtx, fogs []*fog.Node, mode fog.Mode, position geo.Point) {
	nearest := v.NearestFog(fogs)
	if nearest == nil {
		return
	}
	for _, t := range v.Tasks {
		if t.State != task.Pending {
			continue
		}
		if nearest.AskAssign(ctx, t, mode, true, position) {
			if t.State != task.InProgress {
				ctx.Ledger.Restore(t, task.InProgress)
			}
		}
	}
}

// ReceiveTaskResult is notified when one of the vehicle's tasks completes.
func (v *Vehicle) ReceiveTaskResult(t *task.Task) {
	v.NotFinishedTasks--
}

// Destroy fails every still-PENDING task of the vehicle; IN_PROGRESS tasks
// continue running on their host fog until they complete.
func (v *Vehicle) Destroy(ledger *task.Ledger) {
	for _, t := range v.Tasks {
		if t.State == task.Pending {
			ledger.Fail(t)
			v.NotFinishedTasks--
		}
	}
}
