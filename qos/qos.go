// Package qos computes the scalar Quality-of-Service objective the
// placement algorithm is scored against, and the aggregate counters used to
// summarise a simulation tick.
package qos

import (
	"fogsim/fog"
	"fogsim/task"
)

// Constants are the weights of the four QoS terms.
type Constants struct {
	KTasks float64
	KNodes float64
	KLinks float64
	KCost  float64
}

// DefaultConstants matches the spec's default weighting.
var DefaultConstants = Constants{KTasks: 3.0, KNodes: 1.0, KLinks: 1.0, KCost: 0.5}

// Terms holds the raw per-term values behind the QoS scalar, returned by
// Evaluate alongside the score.
type Terms struct {
	InProgress       int
	NodeUsageVar     float64
	LinkLoadVar      float64
	TaskDistanceCost float64
}

// Evaluate computes the QoS scalar and its raw terms for a fog topology and
// task ledger:
//
//	QoS = KTasks·|IN_PROGRESS| − KNodes·var(usage) − KLinks·var(links_load) − KCost·all_task_distances
//
// An empty fog set yields QoS = 0 (population variance over zero elements is
// defined as 0 here, matching the boundary behaviour in §8).
func Evaluate(fogs []*fog.Node, ledger *task.Ledger, allTaskDistances float64, k Constants) (float64, Terms) {
	terms := Terms{
		InProgress:       ledger.Count(task.InProgress),
		TaskDistanceCost: allTaskDistances,
	}
	if len(fogs) == 0 {
		return 0, terms
	}

	usages := make([]float64, len(fogs))
	loads := make([]float64, len(fogs))
	for i, f := range fogs {
		usages[i] = f.Usage
		loads[i] = f.LinksLoad()
	}
	terms.NodeUsageVar = populationVariance(usages)
	terms.LinkLoadVar = populationVariance(loads)

	score := k.KTasks*float64(terms.InProgress) -
		k.KNodes*terms.NodeUsageVar -
		k.KLinks*terms.LinkLoadVar -
		k.KCost*terms.TaskDistanceCost
	return score, terms
}

// populationVariance returns Σ(x-mean)²/n, 0 for an empty or singleton input.
func populationVariance(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return variance / float64(n)
}

// Counters are the per-tick task-state counts exposed alongside Terms.
type Counters struct {
	Allocated int
	Pending   int
	Completed int
	Failed    int
	Total     int
}

// EvalParameters returns the per-state task counters read from ledger. The
// terms argument is not read; callers pass the Terms from Evaluate alongside.
func EvalParameters(ledger *task.Ledger, terms Terms) Counters {
	snap := ledger.Snapshot()
	return Counters{
		Allocated: snap[task.InProgress],
		Pending:   snap[task.Pending],
		Completed: snap[task.Completed],
		Failed:    snap[task.Failed],
		Total:     ledger.Total(),
	}
}
