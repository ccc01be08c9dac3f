package sim

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"fogsim/qos"
	"fogsim/task"
	"fogsim/vehicle"
)

// Step performs one tick of the §4.10 orchestration: reset link charges,
// reconcile the vehicle population against the oracle, generate/assign
// tasks per vehicle, optionally recolour fogs, progress hosted tasks, and
// record the tick's QoS and counters.
func (s *Simulation) Step(ctx context.Context) error {
	s.resetLinkCharges()

	if err := s.Oracle.Step(ctx); err != nil {
		return err
	}
	s.reconcileVehicles()

	for _, v := range s.Vehicles {
		s.driveVehicle(v)
	}

	if s.Visual != nil {
		recolorFogs(s.Fogs, s.Visual)
	}

	for _, f := range s.Fogs {
		f.ProgressTasks(s.ctx, func(t *task.Task) {
			if v, ok := s.VehicleByID(t.VehicleID); ok {
				v.ReceiveTaskResult(t)
			}
		})
	}

	score, terms := qos.Evaluate(s.Fogs, s.Ledger, s.Globals.AllTaskDistances, qos.Constants{
		KTasks: s.Config.QoS.KTasks,
		KNodes: s.Config.QoS.KNodes,
		KLinks: s.Config.QoS.KLinks,
		KCost:  s.Config.QoS.KCost,
	})
	s.LastQoS = score
	s.LastTerms = terms
	s.Tick++

	s.publishSnapshot()
	return nil
}

func (s *Simulation) resetLinkCharges() {
	for _, f := range s.Fogs {
		for _, l := range f.Links {
			l.ResetCharge()
		}
	}
}

// reconcileVehicles removes vehicles the oracle no longer reports (failing
// every still-PENDING task of each) and inserts newly reported ones. New
// arrivals are sorted by id before insertion so that a non-deterministic
// map iteration order never leaks into simulation state.
func (s *Simulation) reconcileVehicles() {
	ids := s.Oracle.VehicleIDs()

	survivors := make([]*vehicle.Vehicle, 0, len(s.Vehicles))
	existing := make(map[string]struct{}, len(s.Vehicles))
	for _, v := range s.Vehicles {
		if _, ok := ids[v.ID]; ok {
			survivors = append(survivors, v)
			existing[v.ID] = struct{}{}
		} else {
			v.Destroy(s.Ledger)
		}
	}

	newIDs := make([]string, 0, len(ids))
	for id := range ids {
		if _, ok := existing[id]; !ok {
			newIDs = append(newIDs, id)
		}
	}
	sort.Strings(newIDs)
	for _, id := range newIDs {
		survivors = append(survivors, vehicle.New(id))
	}

	s.Vehicles = survivors
}

// driveVehicle refills v's queue when it has nothing left running or
// pending, then — if it has any PENDING task — refreshes its fog-distance
// cache and attempts assignment. ORACLE_FAILURE while querying position is
// recovered locally: the vehicle is treated as gone and picked up by the
// next reconciliation.
func (s *Simulation) driveVehicle(v *vehicle.Vehicle) {
	if v.NotFinishedTasks == 0 {
		if err := v.GenerateTasks(vehicle.TaskGenerationConfig{
			CountRange:       s.Config.Task.CountRange,
			ResourceCPU:      s.Config.Task.Resource.CPU,
			ResourceRAM:      s.Config.Task.Resource.RAM,
			ResourceStorage:  s.Config.Task.Resource.Storage,
			DurationRange:    s.Config.Task.DurationRange,
			CostRange:        s.Config.Task.CostRange,
			KBandwidthCharge: s.Config.Task.KBandwidthCharge,
		}, s.RNG, s.Ledger); err != nil {
			s.Log.Warn("task generation failed", zap.String("vehicle", v.ID), zap.Error(err))
			return
		}
	}

	if !hasPending(v) {
		return
	}

	pos, err := s.Oracle.VehiclePosition(v.ID)
	if err != nil {
		s.Log.Warn("oracle rejected position query, vehicle treated as gone", zap.String("vehicle", v.ID), zap.Error(err))
		return
	}

	v.SetDistanceToFogs(s.Fogs, pos)
	v.AssignTasks(s.ctx, s.Fogs, s.Config.Driver.Mode, pos)
}

func hasPending(v *vehicle.Vehicle) bool {
	for _, t := range v.Tasks {
		if t.State == task.Pending {
			return true
		}
	}
	return false
}
