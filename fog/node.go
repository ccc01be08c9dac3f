// Package fog implements the fog topology and resource-accounting layer:
// nodes, inter-fog links, and the placement decision tree of §4.6.
package fog

import (
	"math"
	"sort"

	"math/rand"

	"fogsim/geo"
	"fogsim/resource"
	"fogsim/task"
	"fogsim/xrand"
)

// Node is a stationary fog-compute endpoint: a capacity owner, task host,
// and admission entry point for its vehicle-facing neighbourhood.
type Node struct {
	ID       string
	Position geo.Point
	Shape    geo.Shape
	Color    geo.RGBA

	Capacity resource.Resource
	Used     resource.Resource
	Usage    float64

	Assigned []*task.Task
	Links    []*Link

	// TaskDistances is Σ √(dist_to_vehicle) · cost over hosted tasks.
	TaskDistances float64
}

// NewNode constructs a fog node with zero used resources and no links.
func NewNode(id string, pos geo.Point, shape geo.Shape, color geo.RGBA, capacity resource.Resource) *Node {
	return &Node{ID: id, Position: pos, Shape: shape, Color: color, Capacity: capacity}
}

// HasEnoughResources is the admission predicate: used + demand ≤ capacity.
func (n *Node) HasEnoughResources(t *task.Task) bool {
	return n.Used.Add(t.Resource).LessEq(n.Capacity)
}

// recomputeUsage refreshes the cached scalar usage = max_component(used/capacity).
func (n *Node) recomputeUsage() {
	n.Usage = n.Used.Div(n.Capacity).MaxComponent()
}

// LinksLoad is the sum of this node's outbound link usages.
func (n *Node) LinksLoad() float64 {
	total := 0.0
	for _, l := range n.Links {
		total += l.Usage()
	}
	return total
}

// SetNeighbours computes the Euclidean distance to every other node, sorts
// ascending, and keeps the first maxNeighbours as outbound links with
// latency ⌊distance⌋ and a bandwidth sampled from bandwidthRange.
func (n *Node) SetNeighbours(all []*Node, bandwidthRange xrand.SteppedRange, maxNeighbours int, rng *rand.Rand) error {
	type candidate struct {
		dist float64
		node *Node
	}
	candidates := make([]candidate, 0, len(all))
	for _, other := range all {
		if other == n {
			continue
		}
		candidates = append(candidates, candidate{geo.Dist(n.Position, other.Position), other})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if maxNeighbours < len(candidates) {
		candidates = candidates[:maxNeighbours]
	}

	links := make([]*Link, 0, len(candidates))
	for _, c := range candidates {
		bandwidth, err := bandwidthRange.Sample(rng)
		if err != nil {
			return err
		}
		links = append(links, &Link{Target: c.node, Latency: int(c.dist), Bandwidth: bandwidth})
	}
	n.Links = links
	return nil
}

// Assign unconditionally commits incoming to this node: it transitions the
// task via progress(0), appends it to Assigned, adds its resource to Used,
// refreshes Usage, caches its distance to the vehicle at vehiclePos, and
// adds the distance*cost contribution to both this node's and the global
// accumulator. It returns the task's state immediately before the call, so
// a caller that must undo the assignment can restore it exactly.
func (n *Node) Assign(ctx *AssignCtx, t *task.Task, vehiclePos geo.Point) task.State {
	old := t.State
	ctx.Ledger.Progress(t, 0)

	n.Assigned = append(n.Assigned, t)
	n.Used = n.Used.Add(t.Resource)
	n.recomputeUsage()

	distSq := geo.SquaredDist(vehiclePos, n.Position)
	t.DistanceToVehicle = distSq
	contribution := math.Sqrt(distSq) * float64(t.Cost)
	n.TaskDistances += contribution
	ctx.Globals.AllTaskDistances += contribution

	return old
}

// UndoDistance reverses the task-distance contribution Assign added for t.
// Callers that revert an Assign are responsible for calling this
// separately, as the spec requires.
func (n *Node) UndoDistance(ctx *AssignCtx, t *task.Task) {
	contribution := math.Sqrt(t.DistanceToVehicle) * float64(t.Cost)
	n.TaskDistances -= contribution
	ctx.Globals.AllTaskDistances -= contribution
}

// Revert is the exact undo of Assign's resource/membership bookkeeping: it
// subtracts t's resource from Used, refreshes Usage, and removes t from
// Assigned (O(1) if isLast, O(n) scan otherwise). When oldState is non-nil
// the task is restored to that state; when nil (the displacement path,
// where t has already been re-assigned elsewhere) the task's current state
// is left untouched.
func (n *Node) Revert(ctx *AssignCtx, t *task.Task, oldState *task.State, isLast bool) {
	freed, err := n.Used.Sub(t.Resource)
	if err != nil {
		// Invariant violation: Used was already inconsistent with Assigned.
		panic(err)
	}
	n.Used = freed
	n.recomputeUsage()
	n.removeAssigned(t, isLast)

	if oldState != nil {
		ctx.Ledger.Restore(t, *oldState)
	}
}

func (n *Node) removeAssigned(t *task.Task, isLast bool) {
	if isLast {
		if last := len(n.Assigned) - 1; last >= 0 && n.Assigned[last] == t {
			n.Assigned = n.Assigned[:last]
			return
		}
	}
	for i, at := range n.Assigned {
		if at == t {
			n.Assigned = append(n.Assigned[:i], n.Assigned[i+1:]...)
			return
		}
	}
}

// ReplaceableTasks returns the hosted tasks cheaper than incoming whose
// eviction would free enough room for incoming, sorted by ascending cost.
func (n *Node) ReplaceableTasks(incoming *task.Task) []*task.Task {
	candidates := make([]*task.Task, 0, len(n.Assigned))
	for _, t := range n.Assigned {
		if t.Cost >= incoming.Cost {
			continue
		}
		freed, err := n.Used.Sub(t.Resource)
		if err != nil {
			continue
		}
		if freed.Add(incoming.Resource).LessEq(n.Capacity) {
			candidates = append(candidates, t)
		}
	}
	return sortedByCost(candidates)
}

// ownerPosition resolves t's own owning vehicle's position through
// ctx.VehiclePosition, falling back to fallback (the triggering call's
// vehicle position) when the lookup is unset or the vehicle is unknown.
func (n *Node) ownerPosition(ctx *AssignCtx, t *task.Task, fallback geo.Point) geo.Point {
	if ctx.VehiclePosition == nil {
		return fallback
	}
	if pos, ok := ctx.VehiclePosition(t.VehicleID); ok {
		return pos
	}
	return fallback
}

// AskAssign implements the §4.6 decision tree: admit directly (optionally
// gated by a speculative QoS check), or — when the request originates at a
// vehicle — forward to a neighbour (mode.Neighbours) or displace a cheaper
// hosted task onto a neighbour (mode.Cost, which subsumes Neighbours in
// this branch). fromVehicle is false on every recursive neighbour call,
// capping recursion depth to one hop.
func (n *Node) AskAssign(ctx *AssignCtx, incoming *task.Task, mode Mode, fromVehicle bool, vehiclePos geo.Point) bool {
	if n.HasEnoughResources(incoming) {
		if mode.QoS {
			q0 := ctx.QoS()
			old := n.Assign(ctx, incoming, vehiclePos)
			q1 := ctx.QoS()
			if q1 >= q0 {
				return true
			}
			n.Revert(ctx, incoming, &old, true)
			n.UndoDistance(ctx, incoming)
			// fall through to neighbour/cost handling below
		} else {
			n.Assign(ctx, incoming, vehiclePos)
			return true
		}
	}

	if fromVehicle {
		if mode.Cost {
			for _, t := range n.ReplaceableTasks(incoming) {
				tPos := n.ownerPosition(ctx, t, vehiclePos)
				for _, link := range n.Links {
					// The neighbour's Assign overwrites t.DistanceToVehicle; keep this
					// node's value so that its own contribution is the one undone.
					hostDist := t.DistanceToVehicle
					if link.CanHandle(t.BandwidthCharge()) && link.Target.AskAssign(ctx, t, mode, false, tPos) {
						targetDist := t.DistanceToVehicle
						n.Revert(ctx, t, nil, false)
						t.DistanceToVehicle = hostDist
						n.UndoDistance(ctx, t)
						t.DistanceToVehicle = targetDist
						n.Assign(ctx, incoming, vehiclePos)
						link.Charge += t.BandwidthCharge()
						return true
					}
					t.DistanceToVehicle = hostDist
				}
			}
		} else if mode.Neighbours {
			for _, link := range n.Links {
				if link.CanHandle(incoming.BandwidthCharge()) && link.Target.AskAssign(ctx, incoming, mode, false, vehiclePos) {
					link.Charge += incoming.BandwidthCharge()
					return true
				}
			}
		}
	}
	return false
}

// ProgressTasks advances every assigned task by one second. Completed tasks
// are reported to onComplete, removed from Assigned, and have their
// resource and distance contribution released; the slice is rebuilt in a
// single pass over the still-in-progress subset.
func (n *Node) ProgressTasks(ctx *AssignCtx, onComplete func(t *task.Task)) {
	kept := make([]*task.Task, 0, len(n.Assigned))
	for _, t := range n.Assigned {
		ctx.Ledger.Progress(t, 1)
		if t.State == task.Completed {
			onComplete(t)
			freed, err := n.Used.Sub(t.Resource)
			if err != nil {
				panic(err)
			}
			n.Used = freed
			n.recomputeUsage()
			n.UndoDistance(ctx, t)
			continue
		}
		kept = append(kept, t)
	}
	n.Assigned = kept
}
