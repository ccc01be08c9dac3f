package fog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogsim/fog"
	"fogsim/geo"
	"fogsim/resource"
	"fogsim/task"
)

func newCtx() *fog.AssignCtx {
	return &fog.AssignCtx{Ledger: task.NewLedger(), Globals: &fog.Globals{}}
}

func newTestTask(ledger *task.Ledger, cost int, demand resource.Resource) *task.Task {
	t := task.New("t", "v", demand, 10, cost, nil, 0.5)
	ledger.Track(t)
	return t
}

func TestAssignRevertIsExactUndo(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 10, RAM: 10, Storage: 10})
	tk := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})

	old := node.Assign(ctx, tk, geo.Point{X: 3, Y: 4})
	require.Equal(t, task.Pending, old)
	assert.Equal(t, resource.Resource{CPU: 1, RAM: 1, Storage: 1}, node.Used)
	assert.Equal(t, task.InProgress, tk.State)
	assert.Greater(t, node.TaskDistances, 0.0)
	assert.Greater(t, ctx.Globals.AllTaskDistances, 0.0)

	node.Revert(ctx, tk, &old, true)
	node.UndoDistance(ctx, tk)

	assert.Equal(t, resource.Resource{}, node.Used)
	assert.Equal(t, 0.0, node.Usage)
	assert.Empty(t, node.Assigned)
	assert.Equal(t, task.Pending, tk.State)
	assert.InDelta(t, 0.0, node.TaskDistances, 1e-9)
	assert.InDelta(t, 0.0, ctx.Globals.AllTaskDistances, 1e-9)
}

func TestHasEnoughResources(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	tk := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	assert.True(t, node.HasEnoughResources(tk))
	node.Assign(ctx, tk, geo.Point{})

	other := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	assert.False(t, node.HasEnoughResources(other))
}

func TestAskAssignNearestOnlyAccepted(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 10000, RAM: 10000, Storage: 10000})
	mode := fog.NewMode(false, false, false)
	tk := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})

	ok := node.AskAssign(ctx, tk, mode, true, geo.Point{X: 100, Y: 100})
	assert.True(t, ok)
	assert.Equal(t, task.InProgress, tk.State)
	assert.Equal(t, resource.Resource{CPU: 1, RAM: 1, Storage: 1}, node.Used)
}

func TestAskAssignRejectedWhenNoCapacityNoFallback(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	mode := fog.NewMode(false, false, false)
	first := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	node.AskAssign(ctx, first, mode, true, geo.Point{})

	second := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	ok := node.AskAssign(ctx, second, mode, true, geo.Point{})
	assert.False(t, ok)
	assert.Equal(t, task.Pending, second.State)
	assert.Equal(t, resource.Resource{CPU: 1, RAM: 1, Storage: 1}, node.Used, "rejection must not mutate state")
}

func TestAskAssignNeighbourForwarding(t *testing.T) {
	ctx := newCtx()
	a := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	b := fog.NewNode("fogB", geo.Point{X: 10}, nil, geo.RGBA{}, resource.Resource{CPU: 10, RAM: 10, Storage: 10})
	a.Links = []*fog.Link{{Target: b, Bandwidth: 1000}}

	mode := fog.NewMode(true, false, false)
	saturating := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	require.True(t, a.AskAssign(ctx, saturating, mode, true, geo.Point{}))

	forwarded := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	ok := a.AskAssign(ctx, forwarded, mode, true, geo.Point{})
	assert.True(t, ok)
	assert.Contains(t, b.Assigned, forwarded)
	assert.Equal(t, forwarded.BandwidthCharge(), a.Links[0].Charge)
}

func TestAskAssignCostDisplacement(t *testing.T) {
	ctx := newCtx()
	a := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	b := fog.NewNode("fogB", geo.Point{X: 10}, nil, geo.RGBA{}, resource.Resource{CPU: 10, RAM: 10, Storage: 10})
	a.Links = []*fog.Link{{Target: b, Bandwidth: 1000}}

	mode := fog.NewMode(false, false, true)
	tOld := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	require.True(t, a.AskAssign(ctx, tOld, mode, true, geo.Point{}))

	tNew := newTestTask(ctx.Ledger, 5, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	ok := a.AskAssign(ctx, tNew, mode, true, geo.Point{})
	assert.True(t, ok)
	assert.Contains(t, a.Assigned, tNew)
	assert.NotContains(t, a.Assigned, tOld)
	assert.Contains(t, b.Assigned, tOld)
	assert.Equal(t, tOld.BandwidthCharge(), a.Links[0].Charge)
}

// TestAskAssignCostDisplacementUsesDisplacedTasksOwnVehiclePosition guards
// against reusing the triggering call's vehiclePos for a displaced task
// that belongs to a different, already-parked vehicle: the displaced
// task's distance contribution must be computed against its own vehicle's
// position, not the position of whichever vehicle is submitting the new
// task that displaces it.
func TestAskAssignCostDisplacementUsesDisplacedTasksOwnVehiclePosition(t *testing.T) {
	ctx := newCtx()
	a := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	b := fog.NewNode("fogB", geo.Point{X: 10}, nil, geo.RGBA{}, resource.Resource{CPU: 10, RAM: 10, Storage: 10})
	a.Links = []*fog.Link{{Target: b, Bandwidth: 1000}}

	oldVehiclePos := geo.Point{X: 3, Y: 4}
	newVehiclePos := geo.Point{X: 300, Y: 400}
	ctx.VehiclePosition = func(id string) (geo.Point, bool) {
		switch id {
		case "v-old":
			return oldVehiclePos, true
		case "v-new":
			return newVehiclePos, true
		default:
			return geo.Point{}, false
		}
	}

	mode := fog.NewMode(false, false, true)
	tOld := task.New("t-old", "v-old", resource.Resource{CPU: 1, RAM: 1, Storage: 1}, 10, 1, nil, 0.5)
	ctx.Ledger.Track(tOld)
	require.True(t, a.AskAssign(ctx, tOld, mode, true, oldVehiclePos))

	tNew := task.New("t-new", "v-new", resource.Resource{CPU: 1, RAM: 1, Storage: 1}, 10, 5, nil, 0.5)
	ctx.Ledger.Track(tNew)
	ok := a.AskAssign(ctx, tNew, mode, true, newVehiclePos)
	require.True(t, ok)
	require.Contains(t, b.Assigned, tOld)

	assert.Equal(t, geo.SquaredDist(oldVehiclePos, b.Position), tOld.DistanceToVehicle,
		"displaced task must keep its own vehicle's distance, not the displacing call's")
	assert.NotEqual(t, geo.SquaredDist(newVehiclePos, b.Position), tOld.DistanceToVehicle)
}

func TestReplaceableTasksSortedAscendingCost(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 3, RAM: 3, Storage: 3})
	cheap := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	mid := newTestTask(ctx.Ledger, 2, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	node.Assign(ctx, cheap, geo.Point{})
	node.Assign(ctx, mid, geo.Point{})

	incoming := task.New("in", "v", resource.Resource{CPU: 1, RAM: 1, Storage: 1}, 10, 5, nil, 0.5)
	candidates := node.ReplaceableTasks(incoming)
	require.Len(t, candidates, 2)
	assert.Equal(t, cheap, candidates[0])
	assert.Equal(t, mid, candidates[1])
}

func TestProgressTasksCompletesAndReleasesResource(t *testing.T) {
	ctx := newCtx()
	node := fog.NewNode("fogA", geo.Point{}, nil, geo.RGBA{}, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	mode := fog.NewMode(false, false, false)
	tk := newTestTask(ctx.Ledger, 1, resource.Resource{CPU: 1, RAM: 1, Storage: 1})
	tk.RemainingTime = 2
	require.True(t, node.AskAssign(ctx, tk, mode, true, geo.Point{}))

	var completed []*task.Task
	onComplete := func(t *task.Task) { completed = append(completed, t) }

	node.ProgressTasks(ctx, onComplete)
	assert.Equal(t, task.InProgress, tk.State)
	assert.Len(t, node.Assigned, 1)

	node.ProgressTasks(ctx, onComplete)
	assert.Equal(t, task.Completed, tk.State)
	assert.Empty(t, node.Assigned)
	assert.Equal(t, resource.Resource{}, node.Used)
	assert.Len(t, completed, 1)
	assert.InDelta(t, 0.0, node.TaskDistances, 1e-9)
}

func TestSetNeighboursSortedByDistance(t *testing.T) {
	a := fog.NewNode("fogA", geo.Point{X: 0, Y: 0}, nil, geo.RGBA{}, resource.Resource{})
	b := fog.NewNode("fogB", geo.Point{X: 100, Y: 0}, nil, geo.RGBA{}, resource.Resource{})
	c := fog.NewNode("fogC", geo.Point{X: 10, Y: 0}, nil, geo.RGBA{}, resource.Resource{})

	err := a.SetNeighbours([]*fog.Node{a, b, c}, xrangeBandwidth(), 2, deterministicRNG())
	require.NoError(t, err)
	require.Len(t, a.Links, 2)
	assert.Equal(t, c, a.Links[0].Target)
	assert.Equal(t, b, a.Links[1].Target)
	assert.Equal(t, 10, a.Links[0].Latency)
}
