package fog

import (
	"math/rand"
	"strconv"

	"fogsim/geo"
	"fogsim/resource"
	"fogsim/xrand"
)

// RandomNodesArgs parameterises RandomNodes; see config.Topology for the
// configuration-surface equivalent.
type RandomNodesArgs struct {
	Count          int
	OffsetX        float64
	OffsetY        float64
	Center         geo.Point
	RandomDivider  int
	Shape          geo.Shape
	Color          geo.RGBA
	CapacityCPU    xrand.SteppedRange
	CapacityRAM    xrand.SteppedRange
	CapacityStore  xrand.SteppedRange
}

// RandomNodes creates Count fog nodes scattered around Center, each with a
// capacity sampled independently from the given stepped ranges. Node
// positions are drawn before capacities, matching the draw order §5 fixes
// for seeded determinism.
func RandomNodes(args RandomNodesArgs, rng *rand.Rand) ([]*Node, error) {
	nodes := make([]*Node, 0, args.Count)
	for i := 0; i < args.Count; i++ {
		x := (rng.Float64()*2-1)*args.OffsetX/float64(nonZero(args.RandomDivider)) + args.Center.X
		y := (rng.Float64()*2-1)*args.OffsetY/float64(nonZero(args.RandomDivider)) + args.Center.Y
		nodes = append(nodes, NewNode(nodeID(i), geo.Point{X: x, Y: y}, args.Shape, args.Color, resource.Resource{}))
	}
	for _, n := range nodes {
		cpu, err := args.CapacityCPU.Sample(rng)
		if err != nil {
			return nil, err
		}
		ram, err := args.CapacityRAM.Sample(rng)
		if err != nil {
			return nil, err
		}
		storage, err := args.CapacityStore.Sample(rng)
		if err != nil {
			return nil, err
		}
		n.Capacity = resource.Resource{CPU: cpu, RAM: ram, Storage: storage}
	}
	return nodes, nil
}

func nonZero(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func nodeID(i int) string {
	return "fog" + strconv.Itoa(i)
}
