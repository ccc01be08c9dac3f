// Package sim owns the per-tick orchestration (§4.10): it holds the only
// mutable state of one simulation run — the fog topology, the vehicle
// population, the task ledger and the global task-distance accumulator —
// and is the sole caller of the placement and QoS packages.
package sim

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"fogsim/config"
	"fogsim/fog"
	"fogsim/geo"
	"fogsim/oracle"
	"fogsim/qos"
	"fogsim/task"
	"fogsim/vehicle"
)

// Simulation is an explicitly owned context: every global the original
// design kept at module scope (the task ledger, the task-distance
// accumulator) is a field here instead, so independent simulation runs
// never share mutable state (§9's design note).
type Simulation struct {
	Config *config.Config
	Oracle oracle.Oracle
	Visual oracle.VisualSink
	Log    *zap.Logger

	Fogs     []*fog.Node
	Vehicles []*vehicle.Vehicle

	Ledger  *task.Ledger
	Globals *fog.Globals
	RNG     *rand.Rand

	Tick      int
	LastQoS   float64
	LastTerms qos.Terms

	// mu guards snapshot, the only state this type exposes to a reader on
	// another goroutine (httpapi.Server runs its own goroutine concurrently
	// with whatever goroutine calls Step). Every other field above is
	// owned exclusively by the goroutine driving Step and must not be read
	// from elsewhere.
	mu       sync.RWMutex
	snapshot Snapshot

	ctx *fog.AssignCtx
}

// Snapshot is an immutable, concurrency-safe view of a Simulation's
// externally observable state, safe to read from a goroutine other than
// the one calling Step.
type Snapshot struct {
	Tick              int
	FogCount          int
	VehicleCount      int
	ExpectedRemaining int
	LastQoS           float64
	LastTerms         qos.Terms
}

// Snapshot returns the state recorded at the end of the most recently
// completed tick.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// publishSnapshot is called by Step, on its own goroutine, once a tick's
// mutations are all applied.
func (s *Simulation) publishSnapshot() {
	snap := Snapshot{
		Tick:              s.Tick,
		FogCount:          len(s.Fogs),
		VehicleCount:      len(s.Vehicles),
		ExpectedRemaining: s.Oracle.ExpectedRemaining(),
		LastQoS:           s.LastQoS,
		LastTerms:         s.LastTerms,
	}
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// New builds a fresh simulation: it draws fog positions, then fog
// capacities, then fog link bandwidths from rng, in that order, matching
// §5's fixed draw order for seeded determinism.
func New(cfg *config.Config, orc oracle.Oracle, visual oracle.VisualSink, log *zap.Logger) (*Simulation, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(cfg.Driver.Seed))
	ledger := task.NewLedger()
	globals := &fog.Globals{}

	min, max := orc.NetBoundary()
	offsetX := (max.X - min.X) / 2
	offsetY := (max.Y - min.Y) / 2

	fogs, err := fog.RandomNodes(fog.RandomNodesArgs{
		Count:         cfg.Topology.NBFogNodes,
		OffsetX:       offsetX,
		OffsetY:       offsetY,
		Center:        cfg.Topology.Center,
		RandomDivider: cfg.Topology.RandomDivider,
		Shape:         cfg.Topology.FogShape,
		Color:         cfg.Topology.FogColor,
		CapacityCPU:   cfg.Resources.CPU,
		CapacityRAM:   cfg.Resources.RAM,
		CapacityStore: cfg.Resources.Storage,
	}, rng)
	if err != nil {
		return nil, err
	}

	bandwidthRange := cfg.Link.Bandwidth(cfg.Resources.CPU)
	for _, f := range fogs {
		if err := f.SetNeighbours(fogs, bandwidthRange, cfg.Topology.MaxNeighbours, rng); err != nil {
			return nil, err
		}
		if visual != nil {
			visual.PolygonAdd(f.ID, f.Shape, f.Color)
		}
		log.Debug("fog node created", zap.String("id", f.ID), zap.Any("capacity", f.Capacity))
	}

	s := &Simulation{
		Config:  cfg,
		Oracle:  orc,
		Visual:  visual,
		Log:     log,
		Fogs:    fogs,
		Ledger:  ledger,
		Globals: globals,
		RNG:     rng,
	}
	s.ctx = &fog.AssignCtx{Ledger: ledger, Globals: globals, QoS: s.currentQoS, VehiclePosition: s.vehiclePosition}
	s.publishSnapshot()
	return s, nil
}

// vehiclePosition looks up a vehicle's last known position for AssignCtx's
// displacement-target distance computation.
func (s *Simulation) vehiclePosition(id string) (geo.Point, bool) {
	v, ok := s.VehicleByID(id)
	if !ok {
		return geo.Point{}, false
	}
	return v.Position, true
}

func (s *Simulation) currentQoS() float64 {
	score, _ := qos.Evaluate(s.Fogs, s.Ledger, s.Globals.AllTaskDistances, qos.Constants{
		KTasks: s.Config.QoS.KTasks,
		KNodes: s.Config.QoS.KNodes,
		KLinks: s.Config.QoS.KLinks,
		KCost:  s.Config.QoS.KCost,
	})
	return score
}

// VehicleByID returns the vehicle with the given id, if present.
func (s *Simulation) VehicleByID(id string) (*vehicle.Vehicle, bool) {
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}
